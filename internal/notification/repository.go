package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for notification persistence.
type Repository interface {
	// Add inserts a notification.
	Add(ctx context.Context, n *Notification) error

	// List retrieves notifications, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Notification, error)

	// ListByTracker retrieves notifications for a tracker, newest first.
	ListByTracker(ctx context.Context, trackerID string, limit int) ([]Notification, error)

	// Delete removes a notification by ID.
	// Returns ErrNotificationNotFound if it does not exist.
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

// Add inserts a notification.
func (r *SQLiteRepository) Add(ctx context.Context, n *Notification) error {
	if n.ID == "" || n.Type == "" || n.Message == "" || n.TrackerID == "" {
		return ErrInvalidNotification
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (id, type, message, tracker_id, timestamp) VALUES (?, ?, ?, ?, ?)",
		n.ID,
		string(n.Type),
		n.Message,
		n.TrackerID,
		n.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// List retrieves notifications, newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Notification, error) {
	query := `
		SELECT id, type, message, tracker_id, timestamp
		FROM notifications
		ORDER BY timestamp DESC, id DESC`
	var args []any

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

// ListByTracker retrieves notifications for a tracker, newest first.
func (r *SQLiteRepository) ListByTracker(ctx context.Context, trackerID string, limit int) ([]Notification, error) {
	query := `
		SELECT id, type, message, tracker_id, timestamp
		FROM notifications
		WHERE tracker_id = ?
		ORDER BY timestamp DESC, id DESC`
	args := []any{trackerID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.query(ctx, query, args...)
}

// Delete removes a notification by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// query executes a select and scans the results.
func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var typ, ts string

		if err := rows.Scan(&n.ID, &typ, &n.Message, &n.TrackerID, &ts); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		n.Type = Type(typ)
		n.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return notifications, nil
}
