package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
	"AdverseScreener/internal/ports/mocks"
)

type greetRequest struct {
	Name string
}

type greetResponse struct {
	Greeting string  `json:"greeting"`
	Score    float64 `json:"score"`
}

func (r *greetResponse) Validate() error {
	return RangeCheck("score", r.Score)
}

var greetPrompt = NewPrompt[greetRequest]("greet", "0.0.1", "You greet people.", "Greet {{.Name}}.")

func TestStructuredInvoke(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	model := mocks.NewMockChatModel(ctrl)
	model.EXPECT().
		Complete(gomock.Any(), ports.ChatRequest{System: "You greet people.", User: "Greet Ada.", Temperature: 0.2, MaxTokens: 100}).
		Return("```json\n{\"greeting\": \"hello Ada\", \"score\": 0.5}\n```", nil)

	o := NewStructured[greetRequest, greetResponse](model, greetPrompt, Settings{Temperature: 0.2, MaxTokens: 100}, nil)
	resp, err := o.Invoke(context.Background(), greetRequest{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "hello Ada", resp.Greeting)
	assert.InDelta(t, 0.5, resp.Score, 1e-9)
}

func TestStructuredInvokeSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
	}{
		{"no json", "I cannot help with that."},
		{"bad json", "{\"greeting\": }"},
		{"out of range", "{\"greeting\": \"hi\", \"score\": 1.5}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			model := mocks.NewMockChatModel(ctrl)
			model.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(tt.answer, nil)

			o := NewStructured[greetRequest, greetResponse](model, greetPrompt, Settings{}, nil)
			_, err := o.Invoke(context.Background(), greetRequest{Name: "Ada"})

			var schemaErr *domain.SchemaValidationError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "greet", schemaErr.Schema)
		})
	}
}

func TestStructuredInvokeWrapsBackendFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	model := mocks.NewMockChatModel(ctrl)
	model.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", context.DeadlineExceeded)
	model.EXPECT().Provider().Return("openai").AnyTimes()

	o := NewStructured[greetRequest, greetResponse](model, greetPrompt, Settings{}, nil)
	_, err := o.Invoke(context.Background(), greetRequest{Name: "Ada"})

	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "openai", perr.Provider)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestStructuredInvokeKeepsProviderError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	model := mocks.NewMockChatModel(ctrl)
	upstream := &domain.ProviderError{Provider: "anthropic", StatusCode: 529, Retryable: true}
	model.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", upstream)

	o := NewStructured[greetRequest, greetResponse](model, greetPrompt, Settings{}, nil)
	_, err := o.Invoke(context.Background(), greetRequest{Name: "Ada"})

	assert.Same(t, upstream, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestStructuredInfo(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	model := mocks.NewMockChatModel(ctrl)
	model.EXPECT().Provider().Return("anthropic")
	model.EXPECT().Model().Return("claude-3-5-sonnet-20241022")

	o := NewStructured[greetRequest, greetResponse](model, greetPrompt, Settings{}, nil)
	assert.Equal(t, domain.ModelInfo{Provider: "anthropic", Model: "claude-3-5-sonnet-20241022"}, o.Info())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	openai := mocks.NewMockChatModel(ctrl)
	openai.EXPECT().Provider().Return("openai").AnyTimes()

	reg := NewRegistry()
	reg.Register(openai)

	got, err := reg.Resolve(" OpenAI ")
	require.NoError(t, err)
	assert.Same(t, openai, got)

	_, err = reg.Resolve("cohere")
	assert.ErrorContains(t, err, "not registered")
	assert.Equal(t, []string{"openai"}, reg.Providers())
}

func TestPromptRenderMissingField(t *testing.T) {
	t.Parallel()

	p := NewPrompt[map[string]string]("m", "1", "", "{{.missing}}")
	_, err := p.Render(map[string]string{})
	assert.Error(t, err)
}
