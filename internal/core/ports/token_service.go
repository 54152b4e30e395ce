package ports

import "github.com/imezy/imezy-api/internal/core/domain"

// TokenService issues and verifies the two token classes. Pure computation
// over process-wide secrets; no storage access.
type TokenService interface {
	IssueAccess(email, userID string) (string, error)
	IssueRefresh(email, userID string) (string, error)

	VerifyAccess(token string) (*domain.TokenClaims, error)

	// ParseRefresh checks signature, expiry and claim shape only. Callers use
	// it to learn the identity before the stored-token comparison.
	ParseRefresh(token string) (*domain.TokenClaims, error)

	// VerifyRefresh additionally fails with domain.ErrTokenSuperseded when
	// token differs from the stored value, even if otherwise valid.
	VerifyRefresh(token, stored string) (*domain.TokenClaims, error)
}
