package domain

import "time"

// User models an account in the user directory. Email and Username are each
// globally unique; Email is stored lower-cased.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// MinUsernameLen is the shortest username the directory accepts.
const MinUsernameLen = 3
