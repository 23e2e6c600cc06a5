package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/metrics"
	"AdverseScreener/internal/ports"
)

const tracerName = "AdverseScreener/internal/usecase"

// Screening outcome labels.
const (
	OutcomeDefiniteMatch = "definite_match"
	OutcomeManualReview  = "manual_review"
	OutcomeMatch         = "match"
	OutcomeNoMatch       = "no_match"
)

// PipelineDeps wires all driven adapters into the screening pipeline.
// Credibility and Sentiment are optional; a nil value means the stage is absent.
type PipelineDeps struct {
	Fetcher     ports.ArticleFetcher
	Credibility ports.CredibilityAssessor
	Extractor   ports.EntityExtractor
	Matcher     ports.PersonMatcher
	Sentiment   ports.SentimentAnalyser
	Metrics     *metrics.Metrics
	Tracer      trace.Tracer
	Logger      *slog.Logger
}

// Pipeline implements the screening workflow for one article and one person.
type Pipeline struct {
	fetcher     ports.ArticleFetcher
	credibility ports.CredibilityAssessor
	extractor   ports.EntityExtractor
	matcher     ports.PersonMatcher
	sentiment   ports.SentimentAnalyser
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component. Fetcher, Extractor and Matcher are required.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	switch {
	case deps.Fetcher == nil:
		return nil, fmt.Errorf("pipeline: fetcher is required")
	case deps.Extractor == nil:
		return nil, fmt.Errorf("pipeline: extractor is required")
	case deps.Matcher == nil:
		return nil, fmt.Errorf("pipeline: matcher is required")
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{
		fetcher:     deps.Fetcher,
		credibility: deps.Credibility,
		extractor:   deps.Extractor,
		matcher:     deps.Matcher,
		sentiment:   deps.Sentiment,
		metrics:     deps.Metrics,
		tracer:      tracer,
		logger:      logger,
	}, nil
}

// Screen runs fetch, credibility, extraction, matching and sentiment in order.
// Any failure other than inside the sentiment batch aborts the call.
func (p *Pipeline) Screen(ctx context.Context, url string, query domain.QueryPerson) (domain.ScreeningResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.ScreeningResult{}, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(query.Name) == "" {
		return domain.ScreeningResult{}, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	ctx, span := p.tracer.Start(ctx, "screening.screen", trace.WithAttributes(attribute.String("article.url", url)))
	defer span.End()

	logger := p.logger.With("url", url)
	logger.Info("screening started")

	var result domain.ScreeningResult

	err := p.stage(ctx, metrics.StageFetch, func(ctx context.Context) error {
		article, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("fetch article: %w", err)
		}
		result.Article = article
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}

	if p.credibility != nil {
		err = p.stage(ctx, metrics.StageCredibility, func(ctx context.Context) error {
			cred, err := p.credibility.Assess(ctx, result.Article)
			if err != nil {
				return fmt.Errorf("credibility: %w", err)
			}
			result.ArticleCredibility = &cred
			return nil
		})
		if err != nil {
			return p.fail(span, err)
		}
	}

	var extraction domain.ExtractionResult
	err = p.stage(ctx, metrics.StageExtraction, func(ctx context.Context) error {
		out, err := p.extractor.Extract(ctx, result.Article)
		if err != nil {
			return fmt.Errorf("extraction: %w", err)
		}
		extraction = out
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}
	result.Entities = extraction.Entities

	err = p.stage(ctx, metrics.StageMatching, func(ctx context.Context) error {
		matching, err := p.matcher.Match(ctx, &query, extraction.Entities)
		if err != nil {
			return fmt.Errorf("matching: %w", err)
		}
		result.Matching = matching
		return nil
	})
	if err != nil {
		return p.fail(span, err)
	}
	result.QueryPerson = query

	if p.sentiment != nil {
		targets := result.Matching.SentimentTargets()
		if len(targets) > 0 {
			_ = p.stage(ctx, metrics.StageSentiment, func(ctx context.Context) error {
				result.Sentiment = p.sentiment.AnalyseBatch(ctx, targets, extraction, result.Article)
				return nil
			})
			if result.Sentiment == nil {
				logger.Warn("sentiment unavailable", "targets", len(targets))
				p.metrics.IncrementSentimentSkipped()
			}
		}
	}

	outcome := Outcome(result.Matching)
	p.metrics.IncrementOutcome(outcome)
	span.SetAttributes(
		attribute.Int("screening.entities", len(result.Entities)),
		attribute.String("screening.outcome", outcome),
	)

	logger.Info("screening finished",
		"entities", len(result.Entities),
		"matches", len(result.Matching.Matches),
		"outcome", outcome,
	)

	return result, nil
}

// Outcome labels a matching result for metrics.
func Outcome(m domain.MatchingResult) string {
	switch {
	case m.HasDefiniteMatch:
		return OutcomeDefiniteMatch
	case m.RequiresManualReview:
		return OutcomeManualReview
	case m.HasAnyMatch:
		return OutcomeMatch
	default:
		return OutcomeNoMatch
	}
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "screening."+name)
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	p.metrics.ObserveStage(name, time.Since(started), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" failed")
	}
	return err
}

func (p *Pipeline) fail(span trace.Span, err error) (domain.ScreeningResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "screening failed")
	p.logger.Error("screening failed", "error", err)
	return domain.ScreeningResult{}, err
}
