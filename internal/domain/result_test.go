package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe - Short title", DisplayName("Jane Doe", "Short title"))

	exact := strings.Repeat("a", 50)
	assert.Equal(t, "Jane Doe - "+exact, DisplayName("Jane Doe", exact))

	long := strings.Repeat("b", 60)
	got := DisplayName("Jane Doe", long)
	assert.Equal(t, "Jane Doe - "+strings.Repeat("b", 47)+"...", got)
}

func TestTruncateTitleCountsRunes(t *testing.T) {
	t.Parallel()

	title := strings.Repeat("é", 55)
	got := TruncateTitle(title, 50)
	assert.Equal(t, strings.Repeat("é", 47)+"...", got)
}

func TestScreeningResultValidate(t *testing.T) {
	t.Parallel()

	result := ScreeningResult{
		Entities: []Entity{{ID: "e1"}, {ID: "e2"}},
		Matching: MatchingResult{
			EntitiesAnalysed: []string{"e1", "e2"},
			Matches:          []PersonMatch{{EntityID: "e1"}},
		},
		Sentiment: &SentimentResult{Assessments: []SentimentAssessment{{EntityID: "e1"}}},
	}
	require.NoError(t, result.Validate())

	result.Sentiment.Assessments = append(result.Sentiment.Assessments, SentimentAssessment{EntityID: "ghost"})
	assert.ErrorContains(t, result.Validate(), "ghost")
}

func TestNewAnalyserMetadata(t *testing.T) {
	t.Parallel()

	started := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(1234 * time.Millisecond)

	meta := NewAnalyserMetadata(ModelInfo{Provider: "openai", Model: "gpt-4o"}, "0.1.0", "0.1.4", started, finished)

	assert.Equal(t, "2025-03-01T10:00:01.234Z", meta.ProcessedAt)
	assert.InDelta(t, 1.23, meta.ProcessingTimeSeconds, 1e-9)
	assert.Equal(t, "openai", meta.LLMProvider)
	assert.Equal(t, "gpt-4o", meta.LLMModel)
	assert.Equal(t, "0.1.0", meta.AnalyserVersion)
	assert.Equal(t, "0.1.4", meta.PromptVersion)
}

func TestCredibilitySignals(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CredibilityYes, ParseCredibilitySignal(" YES "))
	assert.Equal(t, CredibilityUnsure, ParseCredibilitySignal("perhaps"))

	signals := CredibilitySignals{
		HasAttribution:         CredibilityYes,
		HasNamedQuotes:         CredibilityYes,
		HasSensationalLanguage: CredibilityYes,
		HasPoorGrammar:         CredibilityNo,
	}
	assert.Equal(t, 2, signals.PositiveCount())
	assert.Equal(t, 1, signals.RedFlagCount())

	assert.False(t, CredibilityAssessment{Recommendation: RecommendationReliable}.NeedsVerification())
	assert.True(t, CredibilityAssessment{Recommendation: RecommendationReliable, HardRedFlags: []string{"x"}}.NeedsVerification())
	assert.True(t, CredibilityAssessment{Recommendation: RecommendationUnreliable}.NeedsVerification())
}
