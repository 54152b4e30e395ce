package ports

import (
	"context"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// CreditRepository owns the per-user integer balance.
type CreditRepository interface {
	Balance(ctx context.Context, email string) (int64, error)

	// Adjust atomically applies balance += delta and returns the new balance.
	// A negative delta that would push the balance below zero fails with
	// domain.ErrInsufficientCredits without modifying the row; the guard and
	// the increment are a single storage operation, so concurrent debits for
	// the same user cannot double-spend.
	Adjust(ctx context.Context, email string, delta int64) (int64, error)

	// Refill applies balance += increment_step using the step stored on the
	// row itself.
	Refill(ctx context.Context, email string) (int64, error)

	List(ctx context.Context) ([]domain.Credit, error)
}
