// Package fetcher downloads news articles and reduces them to readable text.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "AdverseScreener/1.0"
	maxBodyBytes     = 10 << 20
)

// HTTPFetcher downloads a page and keeps the paragraphs of its main content.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.ArticleFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; a nil client gets the default timeout.
func NewHTTPFetcher(client *http.Client, userAgent string, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, logger: logger}
}

// Fetch returns the article behind rawURL. Transport failures and non-2xx answers are
// reported as *domain.FetchError. A page readability cannot parse yields an article with
// empty title and content.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return domain.Article{}, &domain.FetchError{URL: rawURL, Err: fmt.Errorf("invalid url")}
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return domain.Article{}, err
	}

	title, content := extract(body, pageURL)
	if content == "" {
		f.logger.Warn("no readable content", "url", rawURL)
	}

	f.logger.Info("fetched article", "url", rawURL, "title", title, "chars", len(content))
	return domain.Article{URL: rawURL, Title: title, Content: content}, nil
}

func (f *HTTPFetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// extract runs readability over the page and joins the paragraph text of the result.
func extract(body []byte, pageURL *url.URL) (string, string) {
	parsed, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(parsed.Title), paragraphs(parsed.Content)
}

func paragraphs(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}
