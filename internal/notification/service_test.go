package notification

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the notifications table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			tracker_id TEXT NOT NULL,
			timestamp TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_notifications_tracker_id ON notifications(tracker_id);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// fakeBroadcaster records broadcast calls.
type fakeBroadcaster struct {
	channels []string
	payloads []any
}

func (b *fakeBroadcaster) Broadcast(channel string, payload any) {
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, payload)
}

func TestService_LockStateChanged(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	hub := &fakeBroadcaster{}
	svc := NewService(repo, hub)

	if err := svc.LockStateChanged(ctx, "tracker-001", "locked"); err != nil {
		t.Fatalf("LockStateChanged() error = %v", err)
	}

	list, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d notifications, want 1", len(list))
	}

	n := list[0]
	if n.Type != TypeLockStateChanged {
		t.Errorf("Type = %q, want %q", n.Type, TypeLockStateChanged)
	}
	if n.Message != "Tracker tracker-001 has been locked." {
		t.Errorf("Message = %q, want exact lock message", n.Message)
	}
	if n.ID == "" || len(n.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", n.ID)
	}
	if n.Timestamp.IsZero() || n.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want non-zero UTC", n.Timestamp)
	}

	if len(hub.channels) != 1 || hub.channels[0] != BroadcastChannel {
		t.Errorf("broadcast channels = %v, want [%s]", hub.channels, BroadcastChannel)
	}
}

func TestService_LockStateChanged_UnlockedMessage(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	svc := NewService(repo, nil)

	if err := svc.LockStateChanged(ctx, "tracker-002", "unlocked"); err != nil {
		t.Fatalf("LockStateChanged() error = %v", err)
	}

	list, _ := svc.List(ctx, 0)
	if list[0].Message != "Tracker tracker-002 has been unlocked." {
		t.Errorf("Message = %q, want exact unlock message", list[0].Message)
	}
}

func TestService_MotionDetected(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	hub := &fakeBroadcaster{}
	svc := NewService(repo, hub)

	if err := svc.MotionDetected(ctx, "tracker-003"); err != nil {
		t.Fatalf("MotionDetected() error = %v", err)
	}

	list, _ := svc.List(ctx, 0)
	if len(list) != 1 {
		t.Fatalf("List() returned %d notifications, want 1", len(list))
	}
	if list[0].Type != TypeMotionDetected {
		t.Errorf("Type = %q, want %q", list[0].Type, TypeMotionDetected)
	}
	if list[0].Message != "Motion detected on locked tracker tracker-003." {
		t.Errorf("Message = %q, want exact motion message", list[0].Message)
	}
}

func TestService_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	svc := NewService(repo, nil)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		if err := svc.MotionDetected(ctx, "tracker-001"); err != nil {
			t.Fatalf("MotionDetected() error = %v", err)
		}
	}

	list, _ := svc.List(ctx, 0)
	for _, n := range list {
		if seen[n.ID] {
			t.Fatalf("duplicate notification ID %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestService_ListByTracker(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	svc := NewService(repo, nil)

	_ = svc.MotionDetected(ctx, "tracker-a")
	_ = svc.MotionDetected(ctx, "tracker-b")
	_ = svc.LockStateChanged(ctx, "tracker-a", "unlocked")

	list, err := svc.ListByTracker(ctx, "tracker-a", 0)
	if err != nil {
		t.Fatalf("ListByTracker() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByTracker() returned %d, want 2", len(list))
	}
	for _, n := range list {
		if n.TrackerID != "tracker-a" {
			t.Errorf("TrackerID = %q, want tracker-a", n.TrackerID)
		}
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	svc := NewService(repo, nil)

	_ = svc.MotionDetected(ctx, "tracker-001")
	list, _ := svc.List(ctx, 0)

	if err := svc.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, list[0].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotificationNotFound", err)
	}
}

func TestSQLiteRepository_Add_Validation(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))

	cases := []Notification{
		{Type: TypeMotionDetected, Message: "m", TrackerID: "t"},
		{ID: "id", Message: "m", TrackerID: "t"},
		{ID: "id", Type: TypeMotionDetected, TrackerID: "t"},
		{ID: "id", Type: TypeMotionDetected, Message: "m"},
	}
	for i := range cases {
		if err := repo.Add(ctx, &cases[i]); !errors.Is(err, ErrInvalidNotification) {
			t.Errorf("Add(case %d) error = %v, want ErrInvalidNotification", i, err)
		}
	}
}

func TestBroadcastPayloadIsNotification(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupTestDB(t))
	hub := &fakeBroadcaster{}
	svc := NewService(repo, hub)

	if err := svc.LockStateChanged(ctx, "tracker-001", "locked"); err != nil {
		t.Fatalf("LockStateChanged() error = %v", err)
	}

	n, ok := hub.payloads[0].(*Notification)
	if !ok {
		t.Fatalf("broadcast payload type = %T, want *Notification", hub.payloads[0])
	}
	if !strings.Contains(n.Message, "tracker-001") {
		t.Errorf("broadcast message = %q, should name the tracker", n.Message)
	}
}
