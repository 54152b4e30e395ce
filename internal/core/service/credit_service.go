package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// CreditService fronts the ledger. The interesting invariant lives in the
// repository's Adjust: the balance guard and the increment are one atomic
// storage operation, so this layer only adds logging and the refill flow.
type CreditService struct {
	credits ports.CreditRepository
	logger  zerolog.Logger
}

func NewCreditService(credits ports.CreditRepository, logger zerolog.Logger) *CreditService {
	return &CreditService{credits: credits, logger: logger}
}

func (s *CreditService) Balance(ctx context.Context, email string) (int64, error) {
	return s.credits.Balance(ctx, email)
}

// Adjust applies a signed delta and returns the new balance. Negative deltas
// that would overdraw fail with ErrInsufficientCredits.
func (s *CreditService) Adjust(ctx context.Context, email string, delta int64) (int64, error) {
	balance, err := s.credits.Adjust(ctx, email, delta)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("email", email).Int64("delta", delta).Int64("balance", balance).Msg("credits adjusted")
	return balance, nil
}

// Refill applies the per-row increment step; used by the periodic top-up.
func (s *CreditService) Refill(ctx context.Context, email string) (int64, error) {
	balance, err := s.credits.Refill(ctx, email)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("email", email).Int64("balance", balance).Msg("credits refilled")
	return balance, nil
}

func (s *CreditService) List(ctx context.Context) ([]domain.Credit, error) {
	return s.credits.List(ctx)
}
