package ports

import (
	"context"
	"time"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// UserRepository persists user identity records and their paired credit rows.
type UserRepository interface {
	// CreateWithCredit inserts the user and its credit row together. When the
	// credit insert fails after the user insert committed, the half-created
	// user is deleted (best effort) and domain.ErrStorageCommit is returned.
	CreateWithCredit(ctx context.Context, user *domain.User, credit *domain.Credit) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)

	// UpdateEmail changes the user's email and re-keys the paired credit row,
	// since the ledger is keyed by email.
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateUsername(ctx context.Context, id, username string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SetAdmin(ctx context.Context, id string) error
	SetLastLogin(ctx context.Context, email string, at time.Time) error

	// Delete removes the user and cascades to the paired credit row.
	Delete(ctx context.Context, id string) error
}
