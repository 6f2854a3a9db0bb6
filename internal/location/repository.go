package location

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for location history persistence.
type Repository interface {
	// Add appends a location fix and fills in its database-assigned ID.
	Add(ctx context.Context, l *Location) error

	// ListByTracker retrieves location fixes for a tracker, newest first.
	// limit <= 0 means no limit.
	ListByTracker(ctx context.Context, trackerID string, limit int) ([]Location, error)

	// Latest returns the most recent fix for a tracker, or nil when the
	// tracker has no history.
	Latest(ctx context.Context, trackerID string) (*Location, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add appends a location fix.
func (r *SQLiteRepository) Add(ctx context.Context, l *Location) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO locations (tracker_id, latitude, longitude, timestamp) VALUES (?, ?, ?, ?)",
		l.TrackerID,
		l.Latitude,
		l.Longitude,
		l.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading location id: %w", err)
	}
	l.ID = id

	return nil
}

// ListByTracker retrieves location fixes for a tracker, newest first.
func (r *SQLiteRepository) ListByTracker(ctx context.Context, trackerID string, limit int) ([]Location, error) {
	query := `
		SELECT id, tracker_id, latitude, longitude, timestamp
		FROM locations
		WHERE tracker_id = ?
		ORDER BY timestamp DESC, id DESC`
	args := []any{trackerID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var fixes []Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}

	return fixes, nil
}

// Latest returns the most recent fix for a tracker.
func (r *SQLiteRepository) Latest(ctx context.Context, trackerID string) (*Location, error) {
	fixes, err := r.ListByTracker(ctx, trackerID, 1)
	if err != nil {
		return nil, err
	}
	if len(fixes) == 0 {
		return nil, nil
	}
	return &fixes[0], nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLocation scans a row or rows result into a Location.
func scanLocation(scanner rowScanner) (*Location, error) {
	var l Location
	var ts string

	if err := scanner.Scan(&l.ID, &l.TrackerID, &l.Latitude, &l.Longitude, &ts); err != nil {
		return nil, fmt.Errorf("scanning location: %w", err)
	}

	var err error
	l.Timestamp, err = time.Parse(time.RFC3339, ts)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}

	return &l, nil
}
