// Package guard decides whether a view may render for the current
// session. It holds no state of its own.
package guard

import "context"

// Decision is the outcome of an access check.
type Decision int

const (
	// Allow renders the requested view.
	Allow Decision = iota
	// RedirectLogin sends the user to the login view.
	RedirectLogin
	// RedirectHome sends an authenticated but under-privileged user home.
	RedirectHome
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Session exposes the predicates the guard needs.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}

// Check gates a view: unauthenticated users are sent to login, and
// authenticated non-admins are sent home when the view requires admin.
func Check(ctx context.Context, s Session, requireAdmin bool) Decision {
	if !s.IsAuthenticated(ctx) {
		return RedirectLogin
	}
	if requireAdmin && !s.IsAdmin(ctx) {
		return RedirectHome
	}
	return Allow
}
