// Package settings provides the keyed store of system-wide configuration
// values (arming state, thresholds, toggles).
//
// Settings are upserted, never hard-deleted in normal operation. The value
// is a closed sum over bool, number, and string; see Value.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Well-known setting names used by the reconciler and command dispatcher.
const (
	// SettingSystemArmed is the armed state of the security system.
	SettingSystemArmed = "systemArmed"
)

// Setting is one named configuration value.
type Setting struct {
	SettingName string    `json:"settingName"`
	Value       Value     `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repository defines settings persistence operations.
type Repository interface {
	// Get retrieves a setting by name. Returns ErrNotFound if absent.
	Get(ctx context.Context, name string) (*Setting, error)

	// List retrieves all settings ordered by name.
	List(ctx context.Context) ([]Setting, error)

	// Upsert writes a setting, creating it if absent. The description is
	// only overwritten when non-empty.
	Upsert(ctx context.Context, s Setting) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get retrieves a setting by name.
func (r *SQLiteRepository) Get(ctx context.Context, name string) (*Setting, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT setting_name, kind, value, description, updated_at FROM settings WHERE setting_name = ?",
		name,
	)

	s, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying setting %s: %w", name, err)
	}
	return s, nil
}

// List retrieves all settings ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT setting_name, kind, value, description, updated_at FROM settings ORDER BY setting_name",
	)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning setting row: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating settings: %w", err)
	}
	return out, nil
}

// Upsert writes a setting, creating it if absent.
func (r *SQLiteRepository) Upsert(ctx context.Context, s Setting) error {
	kind, text, err := s.Value.encode()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (setting_name, kind, value, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(setting_name) DO UPDATE SET
			kind = excluded.kind,
			value = excluded.value,
			description = CASE WHEN excluded.description != '' THEN excluded.description ELSE settings.description END,
			updated_at = excluded.updated_at`,
		s.SettingName, kind, text, s.Description, now,
	)
	if err != nil {
		return fmt.Errorf("upserting setting %s: %w", s.SettingName, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSetting(s scanner) (*Setting, error) {
	var out Setting
	var kind, text, updatedAt string
	if err := s.Scan(&out.SettingName, &kind, &text, &out.Description, &updatedAt); err != nil {
		return nil, err
	}

	value, err := decodeValue(kind, text)
	if err != nil {
		return nil, err
	}
	out.Value = value
	out.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &out, nil
}
