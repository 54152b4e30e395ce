package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// TokenService signs and verifies access and refresh tokens. Access tokens
// use HS256 with the access secret, refresh tokens HS384 with the refresh
// secret, so the two classes cannot be forged from each other's key.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 120 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess signs a short-lived access token for the identity.
func (s *TokenService) IssueAccess(email, userID string) (string, error) {
	return s.sign(email, userID, domain.TokenTypeAccess, jwt.SigningMethodHS256, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the identity.
func (s *TokenService) IssueRefresh(email, userID string) (string, error) {
	return s.sign(email, userID, domain.TokenTypeRefresh, jwt.SigningMethodHS384, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) sign(email, userID string, typ domain.TokenType, method jwt.SigningMethod, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email":   email,
		"user_id": userID,
		"type":    string(typ),
		"exp":     time.Now().UTC().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(method, claims).SignedString(secret)
}

// VerifyAccess decodes an access token with the access secret.
func (s *TokenService) VerifyAccess(token string) (*domain.TokenClaims, error) {
	return s.verify(token, domain.TokenTypeAccess, jwt.SigningMethodHS256, s.accessSecret)
}

// ParseRefresh decodes a refresh token with the refresh secret, checking
// signature, expiry and claim shape only. The caller still has to compare
// against the stored token before trusting it.
func (s *TokenService) ParseRefresh(token string) (*domain.TokenClaims, error) {
	return s.verify(token, domain.TokenTypeRefresh, jwt.SigningMethodHS384, s.refreshSecret)
}

// VerifyRefresh decodes a refresh token and additionally fails with
// ErrTokenSuperseded when it differs from the stored value: a later login
// rotated it out, so a replay of the old token is rejected even though its
// signature is still valid.
func (s *TokenService) VerifyRefresh(token, stored string) (*domain.TokenClaims, error) {
	claims, err := s.ParseRefresh(token)
	if err != nil {
		return nil, err
	}
	if token != stored {
		return nil, domain.ErrTokenSuperseded
	}
	return claims, nil
}

func (s *TokenService) verify(token string, want domain.TokenType, method jwt.SigningMethod, secret []byte) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	email, _ := claims["email"].(string)
	userID, _ := claims["user_id"].(string)
	if email == "" || userID == "" {
		return nil, domain.ErrIdentityMissing
	}
	if typ, _ := claims["type"].(string); typ != string(want) {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{Email: email, UserID: userID, Type: want}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
