package credibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
)

func TestAssess(t *testing.T) {
	t.Parallel()

	article := domain.Article{URL: "https://news.example/a", Title: "Fraud probe", Content: "Body."}

	var seen Request
	o := ports.OracleFunc[Request, Output](func(_ context.Context, req Request) (Output, error) {
		seen = req
		return Output{
			Signals:          domain.CredibilitySignals{HasAttribution: domain.CredibilityYes},
			CredibilityScore: 0.8,
			Recommendation:   domain.RecommendationReliable,
			Rationale:        "named sources",
		}, nil
	})

	assessor := NewAssessor(o, domain.ModelInfo{Provider: "openai", Model: "gpt-4o"}, nil)
	result, err := assessor.Assess(context.Background(), article)
	require.NoError(t, err)

	assert.Equal(t, Request{Title: "Fraud probe", URL: "https://news.example/a", Content: "Body."}, seen)
	assert.InDelta(t, 0.8, result.Assessment.CredibilityScore, 1e-9)
	assert.Equal(t, domain.CredibilityYes, result.Assessment.Signals.HasAttribution)
	assert.Equal(t, PromptVersion, result.Metadata.PromptVersion)
	assert.Equal(t, AnalyserVersion, result.Metadata.AnalyserVersion)
	assert.Equal(t, "openai", result.Metadata.LLMProvider)
}

func TestAssessPropagatesOracleError(t *testing.T) {
	t.Parallel()

	o := ports.OracleFunc[Request, Output](func(context.Context, Request) (Output, error) {
		return Output{}, &domain.SchemaValidationError{Schema: "credibility"}
	})

	_, err := NewAssessor(o, domain.ModelInfo{}, nil).Assess(context.Background(), domain.Article{})

	var schemaErr *domain.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestOutputDecodesFailSoftSignals(t *testing.T) {
	t.Parallel()

	raw := `{"signals":{"has_attribution":"YES","has_poor_grammar":"kind of"},"credibility_score":0.4,
		"recommendation":"requires_verification","rationale":"thin","key_strengths":[],"key_weaknesses":["vague"],"hard_red_flags":[]}`

	out, err := oracle.Decode[Output]("credibility", raw)
	require.NoError(t, err)
	assert.Equal(t, domain.CredibilityYes, out.Signals.HasAttribution)
	assert.Equal(t, domain.CredibilityUnsure, out.Signals.HasPoorGrammar)

	_, err = oracle.Decode[Output]("credibility", `{"credibility_score": 2}`)
	var schemaErr *domain.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestPromptRenders(t *testing.T) {
	t.Parallel()

	text, err := Prompt().Render(Request{Title: "T", URL: "U", Content: "C"})
	require.NoError(t, err)
	assert.Contains(t, text, "Article title: T")
	assert.Contains(t, text, "Article URL: U")
}
