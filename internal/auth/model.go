// Package auth issues and checks admin panel sessions.
package auth

import "time"

// RoleAdmin is the only role allowed into the admin panel.
const RoleAdmin = "admin"

// User is an account that may sign in to the admin panel.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is an issued admin session. Token is the signed value handed to
// the browser; ID is the revocable handle kept in the SessionStore.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Token     string
}
