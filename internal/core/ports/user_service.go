package ports

import (
	"context"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	IsActive bool
	IsAdmin  bool
}

// Profile is a user's own view of their account, balance included.
type Profile struct {
	User    *domain.User `json:"user"`
	Credits int64        `json:"credits"`
}

// UserService is the user directory: CRUD over identity records plus the
// uniqueness and admin invariants.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Profile(ctx context.Context, email string) (*Profile, error)

	// UpdateEmail validates email == confirm and uniqueness, then applies the
	// change. The caller re-issues tokens since email is embedded in claims.
	UpdateEmail(ctx context.Context, id, email, confirm string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdatePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error

	Delete(ctx context.Context, id string) error
	PromoteAdmin(ctx context.Context, id string) error
}
