package users

import (
	"crypto/subtle"
	"time"
)

// User represents a managed account. An account with an activation
// token on file is pending; clearing the token on successful activation
// is the only transition to active, and it happens exactly once.
type User struct {
	ID              int64
	Email           string
	Name            string
	PasswordHash    string
	ActivationToken string // empty when the account is active
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Pending reports whether the account still awaits activation.
func (u *User) Pending() bool { return u.ActivationToken != "" }

// TokenCheck is the outcome of validating a supplied activation token.
// These are decision values, not errors; each maps to a distinct
// user-facing page.
type TokenCheck int

const (
	// TokenValid means the supplied token matches the stored one.
	TokenValid TokenCheck = iota
	// TokenMismatch means a token is on file but does not match.
	TokenMismatch
	// NoTokenOnFile means the account is already active.
	NoTokenOnFile
)

// CheckToken validates the supplied token against the stored one.
// Pure; performs no state change.
func (u *User) CheckToken(supplied string) TokenCheck {
	if u.ActivationToken == "" {
		return NoTokenOnFile
	}
	if subtle.ConstantTimeCompare([]byte(u.ActivationToken), []byte(supplied)) == 1 {
		return TokenValid
	}
	return TokenMismatch
}
