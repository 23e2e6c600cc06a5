package llm

import (
	"context"
	"fmt"
	"strings"

	"AdverseScreener/internal/config"
	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

// OpenAIClient implements ports.ChatModel backed by OpenAI-compatible chat completions.
type OpenAIClient struct {
	model     string
	apiKey    string
	maxTokens int
	transport transport
}

var _ ports.ChatModel = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.LLMProviderConfig, requestsPerMinute int) *OpenAIClient {
	return &OpenAIClient{
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		transport: newTransport(config.ProviderOpenAI, cfg.Endpoint, cfg.Timeout, requestsPerMinute),
	}
}

// Provider identifies the backend in metadata and the registry.
func (c *OpenAIClient) Provider() string {
	return config.ProviderOpenAI
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends one system+user exchange and returns the assistant message content.
func (c *OpenAIClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("openai client is nil")
	}
	if c.apiKey == "" || c.transport.endpoint == "" || c.model == "" {
		return "", &domain.ProviderError{Provider: config.ProviderOpenAI, Message: "client misconfigured"}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	payload := map[string]any{
		"model":       c.model,
		"temperature": req.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(req.System)},
			{"role": "user", "content": req.User},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	if maxTokens > 0 {
		payload["max_completion_tokens"] = maxTokens
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.transport.post(ctx, headers, payload, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", &domain.ProviderError{Provider: config.ProviderOpenAI, Message: "response has no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a careful analyst. Answer with a single JSON object."
	}
	return prompt
}
