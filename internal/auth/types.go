package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a pragmatic format check, not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	maxEmailLength    = 254
	maxNameLength     = 100
	minPasswordLength = 8
)

// IsValidEmail checks whether an email address is plausibly deliverable.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// IsValidPassword checks the minimum password requirement.
func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// IsValidName checks a display name is present and within bounds.
func IsValidName(name string) bool {
	return name != "" && len(name) <= maxNameLength
}

// User represents a registered dashboard account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"createdAt"`
}

// Sentinel errors for auth operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrTokenInvalid = errors.New("invalid token")
)
