package motion

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for motion event persistence.
type Repository interface {
	// Add appends a motion event and fills in its database-assigned ID.
	Add(ctx context.Context, m *Motion) error

	// ListByTracker retrieves motion events for a tracker, newest first.
	// limit <= 0 means no limit.
	ListByTracker(ctx context.Context, trackerID string, limit int) ([]Motion, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add appends a motion event.
func (r *SQLiteRepository) Add(ctx context.Context, m *Motion) error {
	if m.TrackerID == "" {
		return ErrInvalidTrackerID
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO motions (tracker_id, motion_detected, timestamp) VALUES (?, ?, ?)",
		m.TrackerID,
		boolToInt(m.MotionDetected),
		m.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting motion event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading motion event id: %w", err)
	}
	m.ID = id

	return nil
}

// ListByTracker retrieves motion events for a tracker, newest first.
func (r *SQLiteRepository) ListByTracker(ctx context.Context, trackerID string, limit int) ([]Motion, error) {
	query := `
		SELECT id, tracker_id, motion_detected, timestamp
		FROM motions
		WHERE tracker_id = ?
		ORDER BY timestamp DESC, id DESC`
	args := []any{trackerID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying motion events: %w", err)
	}
	defer rows.Close()

	var events []Motion
	for rows.Next() {
		var m Motion
		var detected int
		var ts string

		if err := rows.Scan(&m.ID, &m.TrackerID, &detected, &ts); err != nil {
			return nil, fmt.Errorf("scanning motion event: %w", err)
		}

		m.MotionDetected = detected != 0
		m.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}

		events = append(events, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating motion events: %w", err)
	}

	return events, nil
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
