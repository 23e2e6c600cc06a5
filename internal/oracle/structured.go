// Package oracle turns free-text LLM backends into typed, schema-checked request/response calls.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

// Validator is implemented by responses that carry range or presence constraints.
type Validator interface {
	Validate() error
}

// Settings are the sampling parameters sent with every call.
type Settings struct {
	Temperature float64
	MaxTokens   int
}

// Structured implements ports.Oracle on top of a ChatModel.
type Structured[Req, Resp any] struct {
	model    ports.ChatModel
	prompt   Prompt[Req]
	settings Settings
	logger   *slog.Logger
}

// NewStructured binds a prompt to a backend.
func NewStructured[Req, Resp any](model ports.ChatModel, prompt Prompt[Req], settings Settings, logger *slog.Logger) *Structured[Req, Resp] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Structured[Req, Resp]{
		model:    model,
		prompt:   prompt,
		settings: settings,
		logger:   logger,
	}
}

// Info reports which backend answers this oracle.
func (o *Structured[Req, Resp]) Info() domain.ModelInfo {
	if o == nil || o.model == nil {
		return domain.ModelInfo{}
	}
	return domain.ModelInfo{Provider: o.model.Provider(), Model: o.model.Model()}
}

// Invoke renders the prompt, calls the backend once and decodes the answer into Resp.
func (o *Structured[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	if o == nil || o.model == nil {
		return zero, &domain.ProviderError{Provider: "none", Message: "oracle has no backend"}
	}

	user, err := o.prompt.Render(req)
	if err != nil {
		return zero, err
	}

	raw, err := o.model.Complete(ctx, ports.ChatRequest{
		System:      o.prompt.System,
		User:        user,
		Temperature: o.settings.Temperature,
		MaxTokens:   o.settings.MaxTokens,
	})
	if err != nil {
		var perr *domain.ProviderError
		if errors.As(err, &perr) {
			return zero, err
		}
		return zero, &domain.ProviderError{Provider: o.model.Provider(), Message: "completion failed", Err: err}
	}

	resp, err := Decode[Resp](o.prompt.Name, raw)
	if err != nil {
		o.logger.Debug("oracle response rejected", "prompt", o.prompt.Name, "error", err)
		return zero, err
	}
	return resp, nil
}

// Decode extracts the JSON object from a model answer and validates it.
func Decode[Resp any](schema, raw string) (Resp, error) {
	var resp Resp

	body, ok := jsonObject(raw)
	if !ok {
		return resp, &domain.SchemaValidationError{Schema: schema, Reason: "no JSON object in response"}
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return resp, &domain.SchemaValidationError{Schema: schema, Reason: "decode", Err: err}
	}

	if v, ok := any(&resp).(Validator); ok {
		if err := v.Validate(); err != nil {
			return resp, &domain.SchemaValidationError{Schema: schema, Reason: "validate", Err: err}
		}
	}

	return resp, nil
}

// jsonObject strips markdown fences and surrounding prose from a model answer.
func jsonObject(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// RangeCheck reports an error when value is outside [0,1].
func RangeCheck(field string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be within [0,1], got %v", field, value)
	}
	return nil
}
