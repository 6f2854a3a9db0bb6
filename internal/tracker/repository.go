package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for tracker persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Create inserts a new tracker.
	// Returns ErrTrackerExists if a tracker with the same ID already exists.
	Create(ctx context.Context, t *Tracker) error

	// GetByID retrieves a tracker by its unique identifier.
	// Returns ErrTrackerNotFound if the tracker does not exist.
	GetByID(ctx context.Context, id string) (*Tracker, error)

	// List retrieves all trackers.
	List(ctx context.Context) ([]Tracker, error)

	// Update modifies an existing tracker's name and user details.
	// Returns ErrTrackerNotFound if the tracker does not exist.
	Update(ctx context.Context, t *Tracker) error

	// LinkToUser attaches user account details to a tracker.
	LinkToUser(ctx context.Context, id, email, firebaseUID string) error

	// UpdateDesiredLockState records the state an operator has requested.
	UpdateDesiredLockState(ctx context.Context, id string, state LockState) error

	// UpdateLockState records the state the device has acknowledged.
	UpdateLockState(ctx context.Context, id string, state LockState) error

	// Touch refreshes the last_updated timestamp without changing state.
	// Used for duplicate acknowledgements.
	Touch(ctx context.Context, id string) error

	// FetchLockState returns only the acknowledged lock state.
	FetchLockState(ctx context.Context, id string) (LockState, error)

	// Delete removes a tracker by ID together with its locks and its
	// motion and location history. Notifications are retained.
	// Returns ErrTrackerNotFound if the tracker does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new tracker.
func (r *SQLiteRepository) Create(ctx context.Context, t *Tracker) error {
	if err := t.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.LastUpdated = now

	query := `
		INSERT INTO trackers (
			id, name, email, firebase_uid, lock_state, desired_lock_state,
			created_at, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		nullableString(t.Email),
		nullableString(t.FirebaseUID),
		string(t.LockState),
		string(t.DesiredLockState),
		t.CreatedAt.Format(time.RFC3339),
		t.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrTrackerExists
		}
		return fmt.Errorf("inserting tracker: %w", err)
	}

	return nil
}

// GetByID retrieves a tracker by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Tracker, error) {
	query := `
		SELECT id, name, email, firebase_uid, lock_state, desired_lock_state,
			created_at, last_updated
		FROM trackers
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	t, err := scanTracker(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackerNotFound
		}
		return nil, fmt.Errorf("querying tracker by id: %w", err)
	}
	return t, nil
}

// List retrieves all trackers.
func (r *SQLiteRepository) List(ctx context.Context) ([]Tracker, error) {
	query := `
		SELECT id, name, email, firebase_uid, lock_state, desired_lock_state,
			created_at, last_updated
		FROM trackers
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying trackers: %w", err)
	}
	defer rows.Close()

	var trackers []Tracker
	for rows.Next() {
		t, err := scanTracker(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tracker: %w", err)
		}
		trackers = append(trackers, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trackers: %w", err)
	}

	return trackers, nil
}

// Update modifies an existing tracker's name and user details.
func (r *SQLiteRepository) Update(ctx context.Context, t *Tracker) error {
	t.LastUpdated = time.Now().UTC()

	query := `
		UPDATE trackers
		SET name = ?, email = ?, firebase_uid = ?, last_updated = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		t.Name,
		nullableString(t.Email),
		nullableString(t.FirebaseUID),
		t.LastUpdated.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tracker: %w", err)
	}

	return checkAffected(result)
}

// LinkToUser attaches user account details to a tracker.
func (r *SQLiteRepository) LinkToUser(ctx context.Context, id, email, firebaseUID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE trackers
		SET email = ?, firebase_uid = ?, last_updated = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		email,
		firebaseUID,
		now.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("linking tracker to user: %w", err)
	}

	return checkAffected(result)
}

// UpdateDesiredLockState records the state an operator has requested.
// last_updated is left alone: it tracks device-acknowledged activity, and
// re-requesting the current desired state must change no other field.
func (r *SQLiteRepository) UpdateDesiredLockState(ctx context.Context, id string, state LockState) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE trackers SET desired_lock_state = ? WHERE id = ?",
		string(state), id,
	)
	if err != nil {
		return fmt.Errorf("updating desired lock state: %w", err)
	}

	return checkAffected(result)
}

// UpdateLockState records the state the device has acknowledged.
func (r *SQLiteRepository) UpdateLockState(ctx context.Context, id string, state LockState) error {
	now := time.Now().UTC()

	query := `
		UPDATE trackers
		SET lock_state = ?, last_updated = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(state),
		now.Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating lock state: %w", err)
	}

	return checkAffected(result)
}

// Touch refreshes the last_updated timestamp without changing state.
func (r *SQLiteRepository) Touch(ctx context.Context, id string) error {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		"UPDATE trackers SET last_updated = ? WHERE id = ?",
		now.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("touching tracker: %w", err)
	}

	return checkAffected(result)
}

// FetchLockState returns only the acknowledged lock state.
func (r *SQLiteRepository) FetchLockState(ctx context.Context, id string) (LockState, error) {
	var state string
	err := r.db.QueryRowContext(ctx,
		"SELECT lock_state FROM trackers WHERE id = ?", id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTrackerNotFound
		}
		return "", fmt.Errorf("querying lock state: %w", err)
	}
	return LockState(state), nil
}

// Delete removes a tracker by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting delete transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Dependent tables have no foreign keys (telemetry is accepted for
	// trackers the registry does not know), so the cascade is explicit.
	for _, table := range []string{"locks", "motions", "locations"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE tracker_id = ?", id); err != nil {
			return fmt.Errorf("deleting tracker %s: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM trackers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tracker: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tracker delete: %w", err)
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTracker scans a row or rows result into a Tracker.
func scanTracker(scanner rowScanner) (*Tracker, error) {
	var t Tracker
	var email, firebaseUID sql.NullString
	var lockState, desiredLockState string
	var createdAt, lastUpdated string

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&email,
		&firebaseUID,
		&lockState,
		&desiredLockState,
		&createdAt,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	t.LockState = LockState(lockState)
	t.DesiredLockState = LockState(desiredLockState)

	if email.Valid {
		t.Email = &email.String
	}
	if firebaseUID.Valid {
		t.FirebaseUID = &firebaseUID.String
	}

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.LastUpdated, parseErr = time.Parse(time.RFC3339, lastUpdated)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", parseErr)
	}

	return &t, nil
}

// checkAffected maps a zero-row update or delete to ErrTrackerNotFound.
func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTrackerNotFound
	}
	return nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
