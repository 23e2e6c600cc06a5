package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/metrics"
	"AdverseScreener/internal/ports"
)

// Screener runs a screening and persists its result.
type Screener struct {
	pipeline *Pipeline
	store    ports.ResultStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewScreener pairs a pipeline with the store its results go to.
func NewScreener(pipeline *Pipeline, store ports.ResultStore, m *metrics.Metrics, logger *slog.Logger) *Screener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Screener{pipeline: pipeline, store: store, metrics: m, logger: logger}
}

// ScreenAndStore screens url against query and saves the result, returning its id.
func (s *Screener) ScreenAndStore(ctx context.Context, url string, query domain.QueryPerson) (string, domain.ScreeningResult, error) {
	result, err := s.pipeline.Screen(ctx, url, query)
	if err != nil {
		return "", domain.ScreeningResult{}, err
	}

	if err := result.Validate(); err != nil {
		return "", domain.ScreeningResult{}, fmt.Errorf("screening result inconsistent: %w", err)
	}

	id, err := s.store.Save(ctx, result)
	if err != nil {
		return "", domain.ScreeningResult{}, fmt.Errorf("save result: %w", err)
	}
	s.metrics.IncrementResultsSaved()
	s.logger.Info("screening result saved", "id", id, "url", url)

	return id, result, nil
}

// Get loads a stored result.
func (s *Screener) Get(ctx context.Context, id string) (domain.ScreeningResult, error) {
	return s.store.Get(ctx, id)
}

// List returns stored result summaries, newest first.
func (s *Screener) List(ctx context.Context) ([]domain.ResultMetadata, error) {
	return s.store.List(ctx)
}
