package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// UserService is the user directory. It owns the email/username uniqueness
// invariants and the one-credit-row-per-user creation invariant.
type UserService struct {
	users          ports.UserRepository
	credits        ports.CreditRepository
	defaultCredits int64
	incrementStep  int64
	logger         zerolog.Logger
}

func NewUserService(users ports.UserRepository, credits ports.CreditRepository, defaultCredits, incrementStep int64, logger zerolog.Logger) *UserService {
	return &UserService{
		users:          users,
		credits:        credits,
		defaultCredits: defaultCredits,
		incrementStep:  incrementStep,
		logger:         logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and its paired credit row. Duplicates are checked
// proactively; the insert may still race, in which case the storage layer's
// uniqueness violation is translated to the same error.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if len(in.Username) < domain.MinUsernameLen {
		return nil, domain.ErrUsernameTooShort
	}
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Username:     in.Username,
		PasswordHash: string(hash),
		IsActive:     in.IsActive,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	credit := &domain.Credit{
		Email:         email,
		Balance:       s.defaultCredits,
		IncrementStep: s.incrementStep,
	}

	created, err := s.users.CreateWithCredit(ctx, user, credit)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", created.Email).Str("username", created.Username).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Profile returns the user's own record with the current balance attached.
func (s *UserService) Profile(ctx context.Context, email string) (*ports.Profile, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	balance, err := s.credits.Balance(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return &ports.Profile{User: user, Credits: balance}, nil
}

// UpdateEmail applies an email change after the confirmation and uniqueness
// checks. The repository re-keys the credit row in the same call.
func (s *UserService) UpdateEmail(ctx context.Context, id, email, confirm string) (*domain.User, error) {
	if normalizeEmail(email) != normalizeEmail(confirm) {
		return nil, domain.ErrEmailMismatch
	}
	email = normalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	}

	if err := s.users.UpdateEmail(ctx, id, email); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateUsername(ctx context.Context, id, username string) error {
	if len(username) < domain.MinUsernameLen {
		return domain.ErrUsernameTooShort
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrDuplicateUsername
	}
	return s.users.UpdateUsername(ctx, id, username)
}

// UpdatePassword verifies the old password against the stored hash before
// re-hashing the new one.
func (s *UserService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	if newPassword != confirm {
		return domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("email", user.Email).Msg("password updated")
	return nil
}

// Delete removes the user and, through the repository, the paired credit row.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// PromoteAdmin sets the admin flag. Idempotent: promoting an admin again
// succeeds without error.
func (s *UserService) PromoteAdmin(ctx context.Context, id string) error {
	if err := s.users.SetAdmin(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user promoted to admin")
	return nil
}
