// Package activity provides the append-only activity log.
//
// The log records notable state transitions as they were narrated at
// processing time. Duplicate entries from redelivered messages are expected
// and kept; the log is not deduplicated.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Default and maximum page sizes for listing entries.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Repository defines activity log persistence operations.
type Repository interface {
	// Append inserts a new entry. The timestamp defaults to now.
	Append(ctx context.Context, message string, entryType EntryType) error

	// List returns the most recent entries, newest first.
	// A limit <= 0 uses DefaultLimit; limits above MaxLimit are clamped.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Clear deletes all entries.
	Clear(ctx context.Context) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append inserts a new entry.
func (r *SQLiteRepository) Append(ctx context.Context, message string, entryType EntryType) error {
	if !entryType.Valid() {
		entryType = TypeInfo
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_log (message, type, timestamp) VALUES (?, ?, ?)",
		message, string(entryType), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending log entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, message, type, timestamp FROM activity_log ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typeStr, ts string
		if err := rows.Scan(&e.ID, &e.Message, &typeStr, &ts); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		e.Type = EntryType(typeStr)
		e.Timestamp, _ = time.Parse(time.RFC3339, ts) //nolint:errcheck // format is controlled
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log entries: %w", err)
	}
	return entries, nil
}

// Clear deletes all entries.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM activity_log"); err != nil {
		return fmt.Errorf("clearing log entries: %w", err)
	}
	return nil
}
