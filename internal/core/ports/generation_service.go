package ports

import (
	"context"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// HistoryEntry is one past generation with its stored images, when the
// artifact is still on disk.
type HistoryEntry struct {
	Record domain.GenerationRecord `json:"record"`
	Images []string                `json:"images,omitempty"`
}

// GenerationService is the access gateway around the metered engine call:
// pre-check credits, serialize the engine invocation, debit, record.
type GenerationService interface {
	Generate(ctx context.Context, email string, kind domain.GenerationKind, params GenerateParams) (*domain.GenerationResult, error)
	History(ctx context.Context, email string) ([]HistoryEntry, error)
}
