package ports

import (
	"context"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// GenerationRepository persists write-once usage records.
type GenerationRepository interface {
	Insert(ctx context.Context, rec *domain.GenerationRecord) error
	ListByEmail(ctx context.Context, email string) ([]domain.GenerationRecord, error)
}
