// Package auth handles user accounts, argon2id password hashing, and opaque
// session tokens stored in Redis. Every other plugin gates its routes on the
// RequireSession middleware exported here.
package auth

import "time"

// Role determines what a user can do in the office.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleAppraiser   Role = "appraiser"
	RoleReviewer    Role = "reviewer"
	RoleCoordinator Role = "coordinator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAppraiser, RoleReviewer, RoleCoordinator:
		return true
	}
	return false
}

// User represents a staff account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// RegisterInput is the validated input for creating a new account.
// The first account ever created becomes an admin regardless of Role.
type RegisterInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the authenticated session stored in Redis. The token is the key
// and this struct is the JSON-encoded value.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
