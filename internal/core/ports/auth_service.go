package ports

import "context"

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService runs the login, logout and reissue flows.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Logout(ctx context.Context, email string) error

	// Reissue exchanges a valid, non-superseded refresh token for a new
	// access token. The refresh token itself is not rotated here.
	Reissue(ctx context.Context, refreshToken string) (string, error)

	// IssuePair signs a fresh access+refresh pair for the identity and
	// rotates the stored refresh token. Used by login and by email changes,
	// which invalidate the claims embedded in outstanding tokens.
	IssuePair(ctx context.Context, email, userID string) (*TokenPair, error)

	// RotateEmail moves the stored refresh token from the old email key to a
	// freshly issued pair under the new one.
	RotateEmail(ctx context.Context, oldEmail, newEmail, userID string) (*TokenPair, error)
}
