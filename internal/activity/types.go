package activity

import "time"

// EntryType classifies a log entry for dashboard presentation.
type EntryType string

// Entry types.
const (
	TypeInfo    EntryType = "info"
	TypeWarning EntryType = "warning"
	TypeDanger  EntryType = "danger"
	TypeSuccess EntryType = "success"
	TypeAlert   EntryType = "alert"
)

// Valid reports whether t is a recognised entry type.
func (t EntryType) Valid() bool {
	switch t {
	case TypeInfo, TypeWarning, TypeDanger, TypeSuccess, TypeAlert:
		return true
	}
	return false
}

// Entry is one immutable activity log record. Entries carry no foreign key
// to devices; they are a human-readable projection of notable transitions,
// created only and deleted only in bulk.
type Entry struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Type      EntryType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
