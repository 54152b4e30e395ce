package ports

import (
	"context"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// CreditService exposes ledger reads and the atomic delta application.
type CreditService interface {
	Balance(ctx context.Context, email string) (int64, error)
	Adjust(ctx context.Context, email string, delta int64) (int64, error)
	Refill(ctx context.Context, email string) (int64, error)
	List(ctx context.Context) ([]domain.Credit, error)
}
