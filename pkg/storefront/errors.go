package storefront

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for common failure scenarios.
var (
	// ErrUnauthorized indicates the backend rejected the token (HTTP 401).
	// The client clears persisted auth state before returning it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoToken indicates a login/register response without a token field.
	ErrNoToken = errors.New("no token received from server")

	// ErrMalformedToken indicates a token that does not have the expected
	// three dot-separated segments or an undecodable payload.
	ErrMalformedToken = errors.New("malformed token")

	// ErrTokenExpired indicates the token's embedded expiry is in the past.
	ErrTokenExpired = errors.New("token has expired")

	// ErrUsernameTaken is returned when the username availability
	// pre-flight check reports a conflict.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when the email availability pre-flight
	// check reports a conflict.
	ErrEmailTaken = errors.New("email already in use")

	// ErrEmptyCart is returned when checkout is attempted with nothing in
	// the cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// StatusError represents a non-2xx response from the backend. Message is
// the backend's own error message when the body carried one, otherwise a
// generic status-coded message.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// statusError builds a StatusError with the generic fallback message.
func statusError(code int, message string) *StatusError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", code)
	}
	return &StatusError{StatusCode: code, Message: message}
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 permission failure.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 missing-resource failure.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether err is a 409 conflict. The storefront only
// produces these during registration availability checks.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
