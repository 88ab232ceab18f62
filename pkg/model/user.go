package model

// Role markers as issued by the storefront backend.
const (
	// RoleUser is a standard authenticated customer.
	RoleUser = "ROLE_USER"
	// RoleAdmin has access to catalog and order administration.
	RoleAdmin = "ROLE_ADMIN"
)

// User is the client-side profile of an authenticated user.
// It is derived from the login/register response and persisted
// locally alongside the token.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the user carries the given role marker.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
