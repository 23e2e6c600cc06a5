package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
)

const sampleAnswer = "```json\n" + `{"entities": [
  {"id": "model-made-up", "name": " John Smith ", "aliases": ["Smith"], "birth_year": 1975,
   "mention_sentences": ["John Smith was charged.", "Smith denied it."], "mention_count": 7,
   "employments": [{"role": "CEO", "organization": "Acme", "evidence_quote": "CEO of Acme"}]},
  {"name": "Jane Doe", "age": "41", "extraction_confidence": 0.6, "mention_sentences": []}
]}` + "\n```"

func TestDecodeAndPostprocess(t *testing.T) {
	t.Parallel()

	out, err := oracle.Decode[Output]("extraction", sampleAnswer)
	require.NoError(t, err)
	require.Len(t, out.Entities, 2)

	o := ports.OracleFunc[Request, Output](func(context.Context, Request) (Output, error) {
		return out, nil
	})

	extractor := NewExtractor(o, domain.ModelInfo{Provider: "anthropic", Model: "claude"}, nil)
	ids := []string{"id-1", "id-2"}
	extractor.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	result, err := extractor.Extract(context.Background(), domain.Article{URL: "u", Title: "t", Content: "c"})
	require.NoError(t, err)
	require.Len(t, result.Entities, 2)

	john := result.Entities[0]
	assert.Equal(t, "id-1", john.ID)
	assert.Equal(t, "John Smith", john.Name)
	assert.Equal(t, "1975", john.BirthYear)
	assert.Equal(t, 2, john.MentionCount)
	assert.InDelta(t, 1.0, john.ExtractionConfidence, 1e-9)
	require.Len(t, john.Employments, 1)
	assert.Equal(t, "Acme", john.Employments[0].Organization)

	jane := result.Entities[1]
	assert.Equal(t, "id-2", jane.ID)
	assert.Equal(t, "41", jane.Age)
	assert.Equal(t, 0, jane.MentionCount)
	assert.InDelta(t, 0.6, jane.ExtractionConfidence, 1e-9)

	assert.Equal(t, []string{"id-1", "id-2"}, result.EntityIDs())
	assert.Equal(t, PromptVersion, result.Metadata.PromptVersion)
	assert.Equal(t, "anthropic", result.Metadata.LLMProvider)
}

func TestExtractAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	o := ports.OracleFunc[Request, Output](func(context.Context, Request) (Output, error) {
		return Output{Entities: []EntityPayload{
			{Entity: domain.Entity{Name: "A"}},
			{Entity: domain.Entity{Name: "B"}},
		}}, nil
	})

	result, err := NewExtractor(o, domain.ModelInfo{}, nil).Extract(context.Background(), domain.Article{})
	require.NoError(t, err)
	require.Len(t, result.Entities, 2)
	assert.NotEmpty(t, result.Entities[0].ID)
	assert.NotEqual(t, result.Entities[0].ID, result.Entities[1].ID)
}

func TestValidateRejectsBadEntities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty name", raw: `{"entities": [{"name": "  "}]}`},
		{name: "confidence above one", raw: `{"entities": [{"name": "A", "extraction_confidence": 1.5}]}`},
		{name: "negative confidence", raw: `{"entities": [{"name": "A", "extraction_confidence": -0.1}]}`},
		{name: "birth year object", raw: `{"entities": [{"name": "A", "birth_year": {"y": 1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := oracle.Decode[Output]("extraction", tt.raw)
			var schemaErr *domain.SchemaValidationError
			assert.ErrorAs(t, err, &schemaErr)
		})
	}
}

func TestExtractPropagatesProviderError(t *testing.T) {
	t.Parallel()

	o := ports.OracleFunc[Request, Output](func(context.Context, Request) (Output, error) {
		return Output{}, &domain.ProviderError{Provider: "openai", StatusCode: 500, Retryable: true}
	})

	_, err := NewExtractor(o, domain.ModelInfo{}, nil).Extract(context.Background(), domain.Article{})
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))

	var perr *domain.ProviderError
	assert.True(t, errors.As(err, &perr))
}
