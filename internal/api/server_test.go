package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/argus-iot/argus-core/internal/infrastructure/config"
	"github.com/argus-iot/argus-core/internal/infrastructure/logging"
	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/lock"
	"github.com/argus-iot/argus-core/internal/motion"
	"github.com/argus-iot/argus-core/internal/notification"
	"github.com/argus-iot/argus-core/internal/tracker"
)

const testJWTSecret = "test-secret-for-api-tests-0123456789abcdef"

// fakePublisher records publishes and can simulate broker failure.
type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) Publish(topic string, _ []byte, _ byte, _ bool) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, topic)
	return nil
}

// testHarness bundles the server with its backing stores for assertions.
type testHarness struct {
	server    *Server
	router    http.Handler
	db        *sql.DB
	publisher *fakePublisher
	trackers  *tracker.SQLiteRepository
	locks     *lock.SQLiteRepository
	motions   *motion.SQLiteRepository
	locations *location.SQLiteRepository
}

// newTestHarness builds a fully wired server over an in-memory database.
func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE trackers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			firebase_uid TEXT,
			lock_state TEXT NOT NULL DEFAULT 'locked',
			desired_lock_state TEXT NOT NULL DEFAULT 'locked',
			created_at TEXT NOT NULL,
			last_updated TEXT NOT NULL
		) STRICT;
		CREATE TABLE locks (
			id TEXT PRIMARY KEY,
			tracker_id TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'locked',
			created_at TEXT NOT NULL,
			last_updated TEXT NOT NULL
		) STRICT;
		CREATE TABLE motions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tracker_id TEXT NOT NULL,
			motion_detected INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		) STRICT;
		CREATE TABLE locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tracker_id TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			timestamp TEXT NOT NULL
		) STRICT;
		CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			tracker_id TEXT NOT NULL,
			timestamp TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	trackerRepo := tracker.NewSQLiteRepository(db)
	lockRepo := lock.NewSQLiteRepository(db)
	motionRepo := motion.NewSQLiteRepository(db)
	locationRepo := location.NewSQLiteRepository(db)
	notificationRepo := notification.NewSQLiteRepository(db)

	publisher := &fakePublisher{}
	notifications := notification.NewService(notificationRepo, nil)
	reconciler := tracker.NewReconciler(trackerRepo, publisher, notifications, nil, nil, 1)
	motions := motion.NewProcessor(motionRepo, trackerRepo, notifications, nil, nil)
	locations := location.NewRecorder(locationRepo, nil)

	srv, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 0},
		WS:     config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testJWTSecret, AccessTokenTTL: 15},
		},
		Logger:        logging.Default(),
		Trackers:      tracker.NewService(trackerRepo),
		Reconciler:    reconciler,
		Locks:         lockRepo,
		Motions:       motions,
		Locations:     locations,
		Notifications: notifications,
		Publisher:     publisher,
		Version:       "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.hub = NewHub(srv.wsCfg, srv.logger)

	return &testHarness{
		server:    srv,
		router:    srv.buildRouter(),
		db:        db,
		publisher: publisher,
		trackers:  trackerRepo,
		locks:     lockRepo,
		motions:   motionRepo,
		locations: locationRepo,
	}
}

// authToken signs a test JWT with the harness secret.
func authToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

// doRequest performs an authenticated request against the router.
func (h *testHarness) doRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+authToken(t))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) registerTracker(t *testing.T, id string) {
	t.Helper()
	rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers", registerTrackerRequest{ID: id, Name: "Tracker " + id})
	if rec.Code != http.StatusCreated {
		t.Fatalf("registering tracker %s: status = %d, body = %s", id, rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoint_NoAuth(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshalling body: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v, want status ok and version test", body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestHarness(t)

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trackers", nil)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trackers", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token with wrong secret rejected", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()}
		signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("some-other-secret-that-is-long-enough"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/trackers", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token accepted", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestHarness(t)

	t.Run("valid credentials return token", func(t *testing.T) {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(loginRequest{Username: "admin", Password: "admin"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", &buf)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp loginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.AccessToken == "" || resp.TokenType != "Bearer" {
			t.Errorf("response = %+v, want bearer token", resp)
		}

		// The issued token must pass the auth middleware.
		req2 := httptest.NewRequest(http.MethodGet, "/api/v1/trackers", nil)
		req2.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		rec2 := httptest.NewRecorder()
		h.router.ServeHTTP(rec2, req2)
		if rec2.Code != http.StatusOK {
			t.Errorf("issued token rejected: status = %d", rec2.Code)
		}
	})

	t.Run("bad credentials rejected", func(t *testing.T) {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(loginRequest{Username: "admin", Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", &buf)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestTrackerCRUD(t *testing.T) {
	h := newTestHarness(t)

	t.Run("register and fetch", func(t *testing.T) {
		h.registerTracker(t, "tracker-001")

		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-001", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got tracker.Tracker
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling tracker: %v", err)
		}
		if got.LockState != tracker.LockStateLocked || got.DesiredLockState != tracker.LockStateLocked {
			t.Error("new tracker should default to locked/locked")
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers",
			registerTrackerRequest{ID: "tracker-001", Name: "again"})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("unknown tracker 404", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/ghost", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("link attaches user details", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers/tracker-001/link",
			linkTrackerRequest{Email: "owner@example.com", FirebaseUID: "fb-1"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var got tracker.Tracker
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Email == nil || *got.Email != "owner@example.com" {
			t.Errorf("Email = %v, want owner@example.com", got.Email)
		}
	})

	t.Run("link without email rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers/tracker-001/link",
			linkTrackerRequest{FirebaseUID: "fb-1"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodDelete, "/api/v1/trackers/tracker-001", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		rec = h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-001", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status after delete = %d, want 404", rec.Code)
		}
	})
}

func TestLockStateEndpoints(t *testing.T) {
	h := newTestHarness(t)
	h.registerTracker(t, "tracker-010")

	t.Run("set lock state publishes command", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPut, "/api/v1/trackers/tracker-010/lock-state",
			lockStateRequest{State: "unlocked"})
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202, body = %s", rec.Code, rec.Body.String())
		}
		if len(h.publisher.published) != 1 || h.publisher.published[0] != "tracker-010/lockStateUpdate" {
			t.Errorf("published = %v, want [tracker-010/lockStateUpdate]", h.publisher.published)
		}
	})

	t.Run("get lock state reports divergence", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-010/lock-state", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp lockStateResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.LockState != "locked" {
			t.Errorf("LockState = %q, want locked (ack pending)", resp.LockState)
		}
		if !resp.NeedsSync {
			t.Error("NeedsSync = false, want true while command unacknowledged")
		}
	})

	t.Run("invalid state rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPut, "/api/v1/trackers/tracker-010/lock-state",
			lockStateRequest{State: "ajar"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("publish failure reports bad gateway but persists desired state", func(t *testing.T) {
		h.publisher.err = errors.New("broker down")
		defer func() { h.publisher.err = nil }()

		rec := h.doRequest(t, http.MethodPut, "/api/v1/trackers/tracker-010/lock-state",
			lockStateRequest{State: "locked"})
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}

		got, err := h.trackers.GetByID(context.Background(), "tracker-010")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.DesiredLockState != tracker.LockStateLocked {
			t.Error("desired state must persist despite delivery failure")
		}
	})
}

// A store failure means the desired state was never recorded, so the
// handler must report an internal error rather than the delivery-failed
// response used when only the publish step fails.
func TestSetLockState_StoreFailure(t *testing.T) {
	h := newTestHarness(t)
	h.registerTracker(t, "tracker-015")

	if _, err := h.db.Exec("DROP TABLE trackers"); err != nil {
		t.Fatalf("dropping trackers table: %v", err)
	}

	rec := h.doRequest(t, http.MethodPut, "/api/v1/trackers/tracker-015/lock-state",
		lockStateRequest{State: "unlocked"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body = %s", rec.Code, rec.Body.String())
	}

	var resp Error
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != ErrCodeInternal {
		t.Errorf("error code = %q, want %q", resp.Code, ErrCodeInternal)
	}
	if len(h.publisher.published) != 0 {
		t.Errorf("published = %v, want none when persistence fails", h.publisher.published)
	}
}

func TestLockEndpoints(t *testing.T) {
	h := newTestHarness(t)
	h.registerTracker(t, "tracker-020")

	t.Run("register lock", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/locks",
			registerLockRequest{ID: "lock-1", TrackerID: "tracker-020", Name: "Rear"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var got lock.Lock
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != lock.StatusLocked {
			t.Errorf("Status = %q, want default locked", got.Status)
		}
	})

	t.Run("lock on unknown tracker 404", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/locks",
			registerLockRequest{ID: "lock-2", TrackerID: "ghost", Name: "X"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("update lock status", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPut, "/api/v1/locks/lock-1/status",
			updateLockStatusRequest{Status: "UNLOCKED"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var got lock.Lock
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.Status != lock.StatusUnlocked {
			t.Errorf("Status = %q, want unlocked (case-insensitive input)", got.Status)
		}
	})

	t.Run("invalid lock status rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPut, "/api/v1/locks/lock-1/status",
			updateLockStatusRequest{Status: "ajar"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("status update on unknown lock 404", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPut, "/api/v1/locks/ghost/status",
			updateLockStatusRequest{Status: "locked"})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("list tracker locks", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-020/locks", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var locks []lock.Lock
		_ = json.Unmarshal(rec.Body.Bytes(), &locks)
		if len(locks) != 1 {
			t.Errorf("locks = %d, want 1", len(locks))
		}
	})
}

func TestTelemetryEndpoints(t *testing.T) {
	h := newTestHarness(t)
	h.registerTracker(t, "tracker-030")
	ctx := context.Background()

	// Seed histories directly through the repositories.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := h.motions.Add(ctx, &motion.Motion{
			TrackerID:      "tracker-030",
			MotionDetected: true,
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("seeding motion: %v", err)
		}
		if err := h.locations.Add(ctx, &location.Location{
			TrackerID: "tracker-030",
			Latitude:  50 + float64(i),
			Longitude: float64(i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("seeding location: %v", err)
		}
	}

	t.Run("motion history", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-030/motions?limit=2", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var events []motion.Motion
		_ = json.Unmarshal(rec.Body.Bytes(), &events)
		if len(events) != 2 {
			t.Errorf("events = %d, want 2 (limit)", len(events))
		}
	})

	t.Run("location history", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-030/locations", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var fixes []location.Location
		_ = json.Unmarshal(rec.Body.Bytes(), &fixes)
		if len(fixes) != 3 {
			t.Errorf("fixes = %d, want 3", len(fixes))
		}
	})

	t.Run("latest location", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-030/locations/latest", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var fix location.Location
		_ = json.Unmarshal(rec.Body.Bytes(), &fix)
		if fix.Latitude != 52 {
			t.Errorf("latest latitude = %v, want 52", fix.Latitude)
		}
	})

	t.Run("latest location empty history 404", func(t *testing.T) {
		h.registerTracker(t, "tracker-031")
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/tracker-031/locations/latest", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("telemetry for unknown tracker 404", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/trackers/ghost/motions", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("record motion over REST", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers/tracker-030/motions",
			recordMotionRequest{MotionDetected: true})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var m motion.Motion
		_ = json.Unmarshal(rec.Body.Bytes(), &m)
		if m.ID == 0 {
			t.Error("recorded motion should carry its database ID")
		}
	})

	t.Run("record location over REST", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers/tracker-030/locations",
			recordLocationRequest{Latitude: 48.8584, Longitude: 2.2945})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("out-of-range coordinates rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/trackers/tracker-030/locations",
			recordLocationRequest{Latitude: 91, Longitude: 0})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestNotificationEndpoints(t *testing.T) {
	h := newTestHarness(t)
	h.registerTracker(t, "tracker-040")

	// Produce notifications through the reconciler ack path.
	rec := h.doRequest(t, http.MethodPut, "/api/v1/trackers/tracker-040/lock-state",
		lockStateRequest{State: "unlocked"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("lock-state status = %d", rec.Code)
	}
	if err := h.server.reconciler.ApplyDeviceAck(context.Background(), "tracker-040", "unlocked"); err != nil {
		t.Fatalf("ApplyDeviceAck() error = %v", err)
	}

	t.Run("list notifications", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/notifications", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var list []notification.Notification
		_ = json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 1 {
			t.Fatalf("notifications = %d, want 1", len(list))
		}
		if list[0].Message != "Tracker tracker-040 has been unlocked." {
			t.Errorf("message = %q, want exact unlock text", list[0].Message)
		}
	})

	t.Run("delete notification", func(t *testing.T) {
		listRec := h.doRequest(t, http.MethodGet, "/api/v1/notifications", nil)
		var list []notification.Notification
		_ = json.Unmarshal(listRec.Body.Bytes(), &list)

		rec := h.doRequest(t, http.MethodDelete, "/api/v1/notifications/"+list[0].ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

func TestMQTTPublishEndpoint(t *testing.T) {
	h := newTestHarness(t)

	t.Run("publishes message", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/mqtt/publish",
			publishRequest{Topic: "tracker-001/lockStateUpdate", Payload: `{"state":"locked"}`, QoS: 1})
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if len(h.publisher.published) != 1 {
			t.Errorf("published = %v, want one message", h.publisher.published)
		}
	})

	t.Run("missing topic rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/mqtt/publish", publishRequest{Payload: "x"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid qos rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/mqtt/publish",
			publishRequest{Topic: "t/x", QoS: 3})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("no publisher yields 503", func(t *testing.T) {
		h.server.publisher = nil
		defer func() { h.server.publisher = h.publisher }()

		rec := h.doRequest(t, http.MethodPost, "/api/v1/mqtt/publish",
			publishRequest{Topic: "t/x", Payload: "y"})
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestWebSocketTicketFlow(t *testing.T) {
	h := newTestHarness(t)

	t.Run("ticket issued to authenticated client", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodPost, "/api/v1/auth/ws-ticket", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		ticket, _ := resp["ticket"].(string)
		if ticket == "" {
			t.Fatal("no ticket in response")
		}

		// Single use: first validate succeeds, second fails.
		if !h.server.tickets.validate(ticket) {
			t.Error("ticket should validate once")
		}
		if h.server.tickets.validate(ticket) {
			t.Error("ticket must be single-use")
		}
	})

	t.Run("websocket without ticket rejected", func(t *testing.T) {
		rec := h.doRequest(t, http.MethodGet, "/api/v1/ws", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Deps{})
	if err == nil {
		t.Error("New() should fail without a logger")
	}

	_, err = New(Deps{Logger: logging.Default()})
	if err == nil {
		t.Error("New() should fail without a tracker service")
	}
}
