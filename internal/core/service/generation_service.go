package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/imezy/imezy-api/internal/api/metrics"
	"github.com/imezy/imezy-api/internal/core/domain"
	"github.com/imezy/imezy-api/internal/core/ports"
)

// GenerationService is the access gateway around the metered engine call.
//
// Request lifecycle: balance pre-read → cost check → engine call (serialized
// through the single job slot) → ledger debit → artifact save → usage record.
// The engine is never invoked for a request that cannot be paid for, and
// credits are never debited for a failed engine call.
type GenerationService struct {
	engine    ports.GenerationEngine
	credits   ports.CreditRepository
	records   ports.GenerationRepository
	artifacts ports.ArtifactStore

	costPerImage int64

	// jobSlot serializes engine invocations process-wide: one generation at
	// a time, regardless of requester. Held only across the engine call,
	// never across the ledger debit.
	jobSlot chan struct{}

	logger zerolog.Logger
}

func NewGenerationService(
	engine ports.GenerationEngine,
	credits ports.CreditRepository,
	records ports.GenerationRepository,
	artifacts ports.ArtifactStore,
	costPerImage int64,
	logger zerolog.Logger,
) *GenerationService {
	if costPerImage <= 0 {
		costPerImage = 10
	}
	return &GenerationService{
		engine:       engine,
		credits:      credits,
		records:      records,
		artifacts:    artifacts,
		costPerImage: costPerImage,
		jobSlot:      make(chan struct{}, 1),
		logger:       logger,
	}
}

// Generate runs the debit protocol around one engine call.
func (s *GenerationService) Generate(ctx context.Context, email string, kind domain.GenerationKind, params ports.GenerateParams) (*domain.GenerationResult, error) {
	balance, err := s.credits.Balance(ctx, email)
	if err != nil {
		return nil, err
	}

	count := params.ImageCount(kind)
	cost := int64(count) * s.costPerImage
	if balance < cost {
		metrics.GenerationsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return nil, domain.ErrInsufficientCredits
	}

	result, err := s.runEngine(ctx, kind, params)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	now := time.Now().UTC()

	newBalance, err := s.credits.Adjust(ctx, email, -cost)
	if err != nil {
		// The generation already happened; the spend stands un-billed. This
		// is surfaced, counted and accepted, not retried.
		metrics.UnbilledGenerationsTotal.Inc()
		s.logger.Error().Err(err).
			Str("email", email).
			Str("kind", string(kind)).
			Int64("cost", cost).
			Msg("unbilled generation: ledger debit failed after engine success")
	} else {
		metrics.CreditsSpentTotal.WithLabelValues(string(kind)).Add(float64(cost))
	}

	if err := s.artifacts.Save(kind, email, now, result); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to save generation artifact")
	}

	rec := &domain.GenerationRecord{
		Email:      email,
		Kind:       kind,
		ImageCount: count,
		CreatedAt:  now,
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to write generation record")
	}

	metrics.GenerationsTotal.WithLabelValues(string(kind), "ok").Inc()
	s.logger.Info().
		Str("email", email).
		Str("kind", string(kind)).
		Int("images", count).
		Int64("cost", cost).
		Int64("balance", newBalance).
		Msg("generation completed")

	return result, nil
}

// runEngine acquires the global job slot, invokes the engine, and releases
// the slot. Waiting respects ctx; once the engine call starts it runs to
// completion or error.
func (s *GenerationService) runEngine(ctx context.Context, kind domain.GenerationKind, params ports.GenerateParams) (*domain.GenerationResult, error) {
	waitStart := time.Now()
	select {
	case s.jobSlot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	metrics.JobQueueWait.Observe(time.Since(waitStart).Seconds())
	defer func() { <-s.jobSlot }()

	start := time.Now()
	result, err := s.engine.Generate(ctx, kind, params)
	metrics.EngineDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	return result, err
}

// History returns the user's past generations, attaching stored images where
// the artifact is still available.
func (s *GenerationService) History(ctx context.Context, email string) ([]ports.HistoryEntry, error) {
	recs, err := s.records.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		entry := ports.HistoryEntry{Record: rec}
		if res, err := s.artifacts.Load(rec.Kind, rec.Email, rec.CreatedAt); err == nil {
			entry.Images = res.Images
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
