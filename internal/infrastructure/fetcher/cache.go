package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

const (
	articleKeyPrefix = "article:"
	defaultCacheTTL  = 24 * time.Hour
)

// articleCache is the subset of *redis.Client the cache needs.
type articleCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedFetcher serves repeated URLs from Redis. Cache errors fall through to the
// wrapped fetcher; failed fetches are never cached.
type CachedFetcher struct {
	next   ports.ArticleFetcher
	cache  articleCache
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.ArticleFetcher = (*CachedFetcher)(nil)

// NewCachedFetcher decorates next with a Redis-backed article cache.
func NewCachedFetcher(next ports.ArticleFetcher, cache articleCache, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedFetcher) Fetch(ctx context.Context, rawURL string) (domain.Article, error) {
	key := cacheKey(rawURL)

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var article domain.Article
		if jsonErr := json.Unmarshal(raw, &article); jsonErr == nil {
			c.logger.Debug("article cache hit", "url", rawURL)
			return article, nil
		}
		c.logger.Warn("discarding undecodable cached article", "url", rawURL)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("article cache read failed", "url", rawURL, "error", err)
	}

	article, err := c.next.Fetch(ctx, rawURL)
	if err != nil {
		return domain.Article{}, err
	}

	encoded, err := json.Marshal(article)
	if err == nil {
		err = c.cache.Set(ctx, key, encoded, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("article cache write failed", "url", rawURL, "error", err)
	}

	return article, nil
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return articleKeyPrefix + hex.EncodeToString(sum[:])
}

// NewRedisClient parses url and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
