package models

import (
	"strings"
	"time"
)

// Role is the permission level attached to a session
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// NormalizeRole maps unknown roles to the least privileged one
func NormalizeRole(role string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// IsPrivileged reports whether the role gets full overwrite power
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

// User is an account allowed to sign in
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the authenticated caller attached to every mutating call
type Actor struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UserForm represents data for creating a user
type UserForm struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Validate validates the user form data
func (f *UserForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Username) == "" {
		errors = append(errors, "Username is required")
	}

	if len(f.Username) > 100 {
		errors = append(errors, "Username must be less than 100 characters")
	}

	if len(f.Password) < 8 {
		errors = append(errors, "Password must be at least 8 characters")
	}

	if f.Role != "" && f.Role != string(RoleAdmin) && f.Role != string(RoleUser) {
		errors = append(errors, "Role must be admin or user")
	}

	return errors
}

// LoginForm represents the login payload
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the login payload
func (f *LoginForm) Validate() []string {
	var errors []string
	if f.Username == "" || f.Password == "" {
		errors = append(errors, "Username and password required")
	}
	return errors
}
