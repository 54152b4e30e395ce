package ports

import "context"

// RefreshTokenRepository holds at most one live refresh token per user.
type RefreshTokenRepository interface {
	// Put upserts the token for email, overwriting any previous value. The
	// overwrite is the rotation mechanism: a replaced token stops verifying
	// even before its own expiry.
	Put(ctx context.Context, email, token string) error

	// Get returns the stored token, or domain.ErrTokenInvalid when none exists.
	Get(ctx context.Context, email string) (string, error)

	// Delete removes the stored token and reports whether one existed.
	Delete(ctx context.Context, email string) (bool, error)
}
