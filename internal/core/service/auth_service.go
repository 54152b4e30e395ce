package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// AuthService implements login, logout and access-token reissue on top of
// the token service and the refresh-token store.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	rtokens ports.RefreshTokenRepository
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, rtokens ports.RefreshTokenRepository, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, rtokens: rtokens, logger: logger}
}

// Login verifies credentials and issues a fresh access+refresh pair. The new
// refresh token overwrites any previously stored one, rotating it out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	pair, err := s.IssuePair(ctx, user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetLastLogin(ctx, user.Email, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("failed to stamp last_login")
	}

	s.logger.Info().Str("email", user.Email).Msg("user logged in")
	return pair, nil
}

// IssuePair signs both tokens and rotates the stored refresh token.
func (s *AuthService) IssuePair(ctx context.Context, email, userID string) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccess(email, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(email, userID)
	if err != nil {
		return nil, err
	}
	if err := s.rtokens.Put(ctx, email, refresh); err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// RotateEmail drops the refresh token stored under the old email and issues a
// pair bound to the new one. Without the delete, the old token would stay
// verifiable under its own key until expiry.
func (s *AuthService) RotateEmail(ctx context.Context, oldEmail, newEmail, userID string) (*ports.TokenPair, error) {
	if _, err := s.rtokens.Delete(ctx, oldEmail); err != nil {
		return nil, err
	}
	return s.IssuePair(ctx, newEmail, userID)
}

// Logout deletes the stored refresh token. A logout without a prior login
// reports ErrTokenInvalid.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	deleted, err := s.rtokens.Delete(ctx, email)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTokenInvalid
	}
	s.logger.Info().Str("email", email).Msg("user logged out")
	return nil
}

// Reissue exchanges a refresh token for a new access token. The presented
// token must decode with the refresh secret AND match the stored value; the
// user must still exist in the directory.
func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	stored, err := s.rtokens.Get(ctx, claims.Email)
	if err != nil {
		return "", err
	}
	if _, err := s.tokens.VerifyRefresh(refreshToken, stored); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		return "", err
	}

	return s.tokens.IssueAccess(user.Email, user.ID)
}
