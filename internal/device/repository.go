package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines device persistence operations.
// The SQLite implementation is the only production one; the interface keeps
// the reconciler and command dispatcher testable without a database.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// List retrieves all devices ordered by name.
	List(ctx context.Context) ([]Device, error)

	// Create inserts a new device.
	// Returns ErrExists if a device with the same ID already exists.
	Create(ctx context.Context, d *Device) error

	// Delete removes a device by ID.
	// Returns ErrNotFound if the device does not exist.
	Delete(ctx context.Context, id string) error

	// ApplyState upserts state fields onto a device record. If the record
	// does not exist it is created from seed with the change applied; if it
	// does, only the non-nil change fields are written (last-write-wins).
	ApplyState(ctx context.Context, seed Device, change StateChange) error

	// SetAutomation updates the automation flags of an existing device.
	// Nil fields are left untouched. Returns ErrNotFound if absent.
	SetAutomation(ctx context.Context, id string, isArmed, autoOnMotion *bool) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = `device_id, name, type, room, status, value, is_armed,
	auto_on_motion, pending, last_activity, created_at, updated_at`

// GetByID retrieves a device by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = ?`

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Create inserts a new device.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = StatusIdle
	}
	if d.Room == "" {
		d.Room = "General"
	}

	query := `
		INSERT INTO devices (device_id, name, type, room, status, value,
			is_armed, auto_on_motion, pending, last_activity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		d.DeviceID, d.Name, string(d.Type), d.Room, d.Status, d.Value,
		boolToInt(d.IsArmed), boolToInt(d.AutoOnMotion), boolToInt(d.Pending),
		timePtrToString(d.LastActivity),
		d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// Delete removes a device by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE device_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyState upserts state fields onto a device record.
//
// Runs as insert-or-ignore followed by a targeted update inside one
// transaction, so re-delivery of an identical message converges on the same
// stored row (upsert-by-identity).
func (r *SQLiteRepository) ApplyState(ctx context.Context, seed Device, change StateChange) error {
	at := change.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting upsert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if seed.Room == "" {
		seed.Room = "General"
	}
	if seed.Status == "" {
		seed.Status = StatusUnknown
	}

	// Insert the seed row if this device has not been seen yet.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO devices (device_id, name, type, room, status, value,
			is_armed, auto_on_motion, pending, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(device_id) DO NOTHING`,
		seed.DeviceID, seed.Name, string(seed.Type), seed.Room, seed.Status,
		seed.Value, boolToInt(seed.IsArmed), boolToInt(seed.AutoOnMotion),
		boolToInt(change.Pending),
		at.Format(time.RFC3339), at.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("seeding device %s: %w", seed.DeviceID, err)
	}

	// Apply only the provided fields.
	sets := []string{"pending = ?", "last_activity = ?", "updated_at = ?"}
	args := []any{boolToInt(change.Pending), at.Format(time.RFC3339), at.Format(time.RFC3339)}

	if change.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *change.Status)
	}
	if change.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *change.Value)
	}
	if change.IsArmed != nil {
		sets = append(sets, "is_armed = ?")
		args = append(args, boolToInt(*change.IsArmed))
	}

	args = append(args, seed.DeviceID)
	query := "UPDATE devices SET " + strings.Join(sets, ", ") + " WHERE device_id = ?"
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating device %s state: %w", seed.DeviceID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state upsert: %w", err)
	}
	return nil
}

// SetAutomation updates the automation flags of an existing device.
func (r *SQLiteRepository) SetAutomation(ctx context.Context, id string, isArmed, autoOnMotion *bool) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if isArmed != nil {
		sets = append(sets, "is_armed = ?")
		args = append(args, boolToInt(*isArmed))
	}
	if autoOnMotion != nil {
		sets = append(sets, "auto_on_motion = ?")
		args = append(args, boolToInt(*autoOnMotion))
	}

	args = append(args, id)
	query := "UPDATE devices SET " + strings.Join(sets, ", ") + " WHERE device_id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating device automation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanDevice.
type scanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a device row in deviceColumns order.
func scanDevice(s scanner) (*Device, error) {
	var d Device
	var typeStr string
	var isArmed, autoOnMotion, pending int
	var lastActivity sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&d.DeviceID, &d.Name, &typeStr, &d.Room, &d.Status, &d.Value,
		&isArmed, &autoOnMotion, &pending, &lastActivity, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.Type = Type(typeStr)
	d.IsArmed = isArmed != 0
	d.AutoOnMotion = autoOnMotion != 0
	d.Pending = pending != 0

	if lastActivity.Valid {
		if t, err := time.Parse(time.RFC3339, lastActivity.String); err == nil {
			d.LastActivity = &t
		}
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtrToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
