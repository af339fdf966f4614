package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrAccountInactive indicates the account has not been activated yet.
	ErrAccountInactive = errors.New("account pending activation")
	// ErrNoActivationToken indicates a send-token flow was triggered for
	// an account without a token on file.
	ErrNoActivationToken = errors.New("no activation token on file")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps internal errors to a message suitable for display.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested record does not exist."
	case errors.Is(err, ErrInvalidCredentials):
		return "Email or password is incorrect."
	case errors.Is(err, ErrDuplicateEmail):
		return "That email address is already in use."
	case errors.Is(err, ErrAccountInactive):
		return "The account has not been activated yet."
	case errors.Is(err, ErrNoActivationToken):
		return "The account has no pending activation."
	default:
		return "Something went wrong. Please try again."
	}
}
