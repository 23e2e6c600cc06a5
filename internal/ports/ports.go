//go:generate mockgen -destination=mocks/mocks.go -package=mocks AdverseScreener/internal/ports ArticleFetcher,ChatModel

package ports

import (
	"context"
	"time"

	"AdverseScreener/internal/domain"
)

// ArticleFetcher turns a URL into plain article text.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Article, error)
}

// ChatRequest is a single prompt sent to an LLM backend.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ChatModel is one LLM backend (OpenAI, Anthropic).
type ChatModel interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Oracle maps a typed request to a schema-conformant typed response.
// Failures are *domain.SchemaValidationError or *domain.ProviderError.
type Oracle[Req, Resp any] interface {
	Invoke(ctx context.Context, req Req) (Resp, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Invoke calls f.
func (f OracleFunc[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// CredibilityAssessor scores how reliable an article is.
type CredibilityAssessor interface {
	Assess(ctx context.Context, article domain.Article) (domain.CredibilityResult, error)
}

// EntityExtractor pulls person entities out of an article.
type EntityExtractor interface {
	Extract(ctx context.Context, article domain.Article) (domain.ExtractionResult, error)
}

// PersonMatcher scores every entity against the query person.
type PersonMatcher interface {
	Match(ctx context.Context, query *domain.QueryPerson, entities []domain.Entity) (domain.MatchingResult, error)
}

// SentimentAnalyser assesses adverse content for the selected entities.
// A nil result means sentiment is unavailable, not adverse-free.
type SentimentAnalyser interface {
	AnalyseBatch(ctx context.Context, entityIDs []string, extraction domain.ExtractionResult, article domain.Article) *domain.SentimentResult
}

// ResultStore persists completed screening results.
type ResultStore interface {
	Save(ctx context.Context, result domain.ScreeningResult) (string, error)
	Get(ctx context.Context, id string) (domain.ScreeningResult, error)
	List(ctx context.Context) ([]domain.ResultMetadata, error)
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// IndexReconciler repairs a result index from the stored payloads.
type IndexReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}
