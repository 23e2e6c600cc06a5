package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"AdverseScreener/internal/domain"
)

const defaultTimeout = 120 * time.Second

// transport is the HTTP plumbing shared by every provider client.
type transport struct {
	provider string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

func newTransport(provider, endpoint string, timeout time.Duration, requestsPerMinute int) transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}

	return transport{
		provider: provider,
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (t transport) post(ctx context.Context, headers map[string]string, payload any, v any) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return &domain.ProviderError{Provider: t.provider, Message: "rate limiter", Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return &domain.ProviderError{Provider: t.provider, Message: "do request", Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &domain.ProviderError{
			Provider:   t.provider,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &domain.ProviderError{Provider: t.provider, Message: "decode response", Err: err}
	}

	return nil
}
