package model

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the shape of a successful login or register call.
// Token is required; the remaining fields seed the local profile.
type AuthResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Profile derives the persistable user profile from an auth response,
// defaulting the role set when the backend omits it.
func (r *AuthResponse) Profile() *User {
	roles := r.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	return &User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Roles:    roles,
	}
}
