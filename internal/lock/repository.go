package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for lock persistence operations.
type Repository interface {
	// Register inserts a new lock.
	// Returns ErrLockExists if a lock with the same ID already exists.
	Register(ctx context.Context, l *Lock) error

	// GetByID retrieves a lock by its unique identifier.
	// Returns ErrLockNotFound if the lock does not exist.
	GetByID(ctx context.Context, id string) (*Lock, error)

	// List retrieves all locks.
	List(ctx context.Context) ([]Lock, error)

	// ListByTracker retrieves all locks attached to a tracker.
	ListByTracker(ctx context.Context, trackerID string) ([]Lock, error)

	// UpdateStatus records a status reported by the lock.
	// Returns ErrLockNotFound if the lock does not exist.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// Delete removes a lock by ID.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Register inserts a new lock.
func (r *SQLiteRepository) Register(ctx context.Context, l *Lock) error {
	if err := l.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.LastUpdated = now

	query := `
		INSERT INTO locks (id, tracker_id, name, status, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.TrackerID,
		l.Name,
		string(l.Status),
		l.CreatedAt.Format(time.RFC3339),
		l.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrLockExists
		}
		return fmt.Errorf("inserting lock: %w", err)
	}

	return nil
}

// GetByID retrieves a lock by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Lock, error) {
	query := `
		SELECT id, tracker_id, name, status, created_at, last_updated
		FROM locks
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	l, err := scanLock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("querying lock by id: %w", err)
	}
	return l, nil
}

// List retrieves all locks.
func (r *SQLiteRepository) List(ctx context.Context) ([]Lock, error) {
	query := `
		SELECT id, tracker_id, name, status, created_at, last_updated
		FROM locks
		ORDER BY id`

	return r.queryLocks(ctx, query)
}

// ListByTracker retrieves all locks attached to a tracker.
func (r *SQLiteRepository) ListByTracker(ctx context.Context, trackerID string) ([]Lock, error) {
	query := `
		SELECT id, tracker_id, name, status, created_at, last_updated
		FROM locks
		WHERE tracker_id = ?
		ORDER BY id`

	return r.queryLocks(ctx, query, trackerID)
}

// UpdateStatus records a status reported by the lock.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		"UPDATE locks SET status = ?, last_updated = ? WHERE id = ?",
		string(status), now.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("updating lock status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLockNotFound
	}

	return nil
}

// Delete removes a lock by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM locks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting lock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrLockNotFound
	}

	return nil
}

// queryLocks executes a query and returns a slice of locks.
func (r *SQLiteRepository) queryLocks(ctx context.Context, query string, args ...any) ([]Lock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying locks: %w", err)
	}
	defer rows.Close()

	var locks []Lock
	for rows.Next() {
		l, err := scanLock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lock: %w", err)
		}
		locks = append(locks, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locks: %w", err)
	}

	return locks, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLock scans a row or rows result into a Lock.
func scanLock(scanner rowScanner) (*Lock, error) {
	var l Lock
	var status string
	var createdAt, lastUpdated string

	err := scanner.Scan(
		&l.ID,
		&l.TrackerID,
		&l.Name,
		&status,
		&createdAt,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	l.Status = Status(status)

	var parseErr error
	l.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	l.LastUpdated, parseErr = time.Parse(time.RFC3339, lastUpdated)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing last_updated: %w", parseErr)
	}

	return &l, nil
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
