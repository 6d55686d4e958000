package device

import "time"

// Type classifies a physical device. The set is closed; firmware assigns
// device IDs out-of-band and the backend only ever sees these types.
type Type string

// Device types.
const (
	TypeMotionSensor     Type = "motionSensor"
	TypeContactSensor    Type = "contactSensor"
	TypeSmartLock        Type = "smartLock"
	TypeSmartLight       Type = "smartLight"
	TypeSiren            Type = "siren"
	TypeUltrasonicSensor Type = "ultrasonicSensor"
	TypeRFIDReader       Type = "rfidReader"
)

// Valid reports whether t is a recognised device type.
func (t Type) Valid() bool {
	switch t {
	case TypeMotionSensor, TypeContactSensor, TypeSmartLock, TypeSmartLight,
		TypeSiren, TypeUltrasonicSensor, TypeRFIDReader:
		return true
	}
	return false
}

// Status values. Status is a free-form short string whose valid values are
// type-dependent; these constants cover the statuses the reconciler and
// command dispatcher produce.
const (
	StatusLocked   = "LOCKED"
	StatusUnlocked = "UNLOCKED"
	StatusDetected = "DETECTED"
	StatusCleared  = "CLEARED"
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusOn       = "ON"
	StatusOff      = "OFF"
	StatusIdle     = "IDLE"
	StatusUnknown  = "UNKNOWN"
)

// Device is the last-known state of a physical device.
//
// DeviceID uniquely identifies at most one record; absence of a record for a
// known ID means "not yet seen" and the record is implicitly created on the
// first message (upsert).
type Device struct {
	DeviceID string `json:"deviceId"`
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Room     string `json:"room"`

	Status string  `json:"status"`
	Value  float64 `json:"value"`

	// IsArmed is meaningful for security-relevant devices. For the smart
	// lock it mirrors the LOCKED status; for the siren it mirrors the
	// systemArmed setting.
	IsArmed bool `json:"isArmed"`

	// AutoOnMotion enables light automation driven by the motion sensor.
	AutoOnMotion bool `json:"autoOnMotion"`

	// Pending marks an optimistic write from the command dispatcher that a
	// reconciler-confirmed device report has not yet overwritten.
	Pending bool `json:"pending"`

	LastActivity *time.Time `json:"lastActivity,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StateChange is a partial mutation of a device's state fields.
// Nil pointer fields are left untouched on an existing record.
type StateChange struct {
	Status  *string
	Value   *float64
	IsArmed *bool

	// Pending tags the write: true for optimistic dispatcher writes, false
	// for reconciler-confirmed device reports.
	Pending bool

	// At is the activity timestamp for the mutation. Zero means time.Now.
	At time.Time
}
