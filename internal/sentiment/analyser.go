// Package sentiment assesses adverse content about the entities matched to the query person.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
)

const defaultWorkers = 4

// Output is the Oracle answer for one entity.
type Output domain.SentimentAssessment

// Validate enforces the risk score range.
func (o *Output) Validate() error {
	return oracle.RangeCheck("risk_score", o.RiskScore)
}

// Analyser implements ports.SentimentAnalyser.
type Analyser struct {
	oracle  ports.Oracle[Request, Output]
	info    domain.ModelInfo
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.SentimentAnalyser = (*Analyser)(nil)

// NewAnalyser wires the oracle. workers bounds concurrent Oracle calls in a batch.
func NewAnalyser(o ports.Oracle[Request, Output], info domain.ModelInfo, workers int, logger *slog.Logger) *Analyser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Analyser{
		oracle:  o,
		info:    info,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Analyse assesses a single entity.
func (a *Analyser) Analyse(ctx context.Context, entity domain.Entity, article domain.Article) (domain.SentimentAssessment, error) {
	a.logger.Info("analysing sentiment", "entity", entity.Name)
	started := a.now()

	out, err := a.oracle.Invoke(ctx, newRequest(entity, article))
	if err != nil {
		return domain.SentimentAssessment{}, fmt.Errorf("analyse sentiment for %s: %w", entity.ID, err)
	}

	assessment := domain.SentimentAssessment(out)
	assessment.EntityID = entity.ID
	assessment.EntityName = entity.Name

	a.logger.Info("sentiment analysed",
		"entity", entity.Name,
		"elapsed", a.now().Sub(started).Round(time.Millisecond),
		"allegations", len(assessment.Allegations),
		"risk", assessment.RiskCategory,
	)
	return assessment, nil
}

// AnalyseBatch assesses every target. Failures are logged and skipped; nil is returned
// when there are no targets or none succeeded.
func (a *Analyser) AnalyseBatch(ctx context.Context, entityIDs []string, extraction domain.ExtractionResult, article domain.Article) *domain.SentimentResult {
	if len(entityIDs) == 0 {
		return nil
	}
	started := a.now()

	slots := make([]*domain.SentimentAssessment, len(entityIDs))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, id := range entityIDs {
		entity, ok := extraction.EntityByID(id)
		if !ok {
			a.logger.Warn("sentiment target not found", "entity_id", id)
			continue
		}

		g.Go(func() error {
			assessment, err := a.Analyse(ctx, entity, article)
			if err != nil {
				a.logger.Error("sentiment analysis failed", "entity", entity.Name, "entity_id", entity.ID, "error", err)
				return nil
			}
			slots[i] = &assessment
			return nil
		})
	}
	_ = g.Wait()

	var assessments []domain.SentimentAssessment
	for _, s := range slots {
		if s != nil {
			assessments = append(assessments, *s)
		}
	}
	if len(assessments) == 0 {
		a.logger.Warn("no sentiment assessments succeeded", "targets", len(entityIDs))
		return nil
	}

	return &domain.SentimentResult{
		Assessments: assessments,
		Metadata:    domain.NewAnalyserMetadata(a.info, AnalyserVersion, PromptVersion, started, a.now()),
	}
}
