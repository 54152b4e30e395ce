package domain

import "time"

// TokenType discriminates the two token classes. They are signed with
// independent secrets and algorithms so a leaked access secret cannot forge
// refresh tokens and vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims is the decoded claim set of a verified token.
type TokenClaims struct {
	Email     string
	UserID    string
	Type      TokenType
	ExpiresAt time.Time
}
