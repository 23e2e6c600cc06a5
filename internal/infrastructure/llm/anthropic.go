package llm

import (
	"context"
	"fmt"
	"strings"

	"AdverseScreener/internal/config"
	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

// AnthropicClient implements ports.ChatModel backed by the Anthropic messages API.
type AnthropicClient struct {
	model     string
	apiKey    string
	maxTokens int
	transport transport
}

var _ ports.ChatModel = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg config.LLMProviderConfig, requestsPerMinute int) *AnthropicClient {
	return &AnthropicClient{
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		transport: newTransport(config.ProviderAnthropic, cfg.Endpoint, cfg.Timeout, requestsPerMinute),
	}
}

// Provider identifies the backend in metadata and the registry.
func (c *AnthropicClient) Provider() string {
	return config.ProviderAnthropic
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}

// Complete sends one system+user exchange and joins the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("anthropic client is nil")
	}
	if c.apiKey == "" || c.transport.endpoint == "" || c.model == "" {
		return "", &domain.ProviderError{Provider: config.ProviderAnthropic, Message: "client misconfigured"}
	}

	// max_tokens is mandatory for this API.
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = anthropicMaxTokens
	}

	payload := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": req.User},
		},
	}
	if req.System != "" {
		payload["system"] = req.System
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}
	if err := c.transport.post(ctx, headers, payload, &resp); err != nil {
		return "", err
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", &domain.ProviderError{Provider: config.ProviderAnthropic, Message: "response has no text content"}
	}
	if resp.StopReason == "max_tokens" {
		return "", &domain.ProviderError{Provider: config.ProviderAnthropic, Message: "response truncated at max_tokens"}
	}

	return strings.Join(parts, "\n\n"), nil
}
