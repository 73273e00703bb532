package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/damedesign/portfolio/internal/observability/metrics"
	"github.com/damedesign/portfolio/internal/ports"
)

// CacheConfig configures read-through caching of public content.
// A nil Cache disables caching.
type CacheConfig struct {
	Cache   ports.ContentCache
	TTL     time.Duration
	Metrics *metrics.Metrics
}

type contentCache struct {
	cache   ports.ContentCache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newContentCache(cfg CacheConfig, logger *slog.Logger) *contentCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &contentCache{cache: cfg.Cache, ttl: ttl, logger: logger, metrics: cfg.Metrics}
}

func (c *contentCache) enabled() bool { return c != nil && c.cache != nil }

// cached returns the value under key, loading and storing it on a miss.
// Cache failures fall through to load.
func cached[T any](ctx context.Context, c *contentCache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return load(ctx)
	}

	var hit T
	ok, err := c.cache.GetJSON(ctx, key, &hit)
	switch {
	case err != nil:
		c.metrics.CacheLookup(key, metrics.ResultError)
		c.logger.WarnContext(ctx, "content cache read failed", "key", key, "error", err)
	case ok:
		c.metrics.CacheLookup(key, metrics.ResultHit)
		return hit, nil
	default:
		c.metrics.CacheLookup(key, metrics.ResultMiss)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if setErr := c.cache.SetJSON(ctx, key, v, c.ttl); setErr != nil {
		c.logger.WarnContext(ctx, "content cache write failed", "key", key, "error", setErr)
	}
	return v, nil
}

// invalidate drops keys after a mutation. Failures are logged; the TTL bounds staleness.
func (c *contentCache) invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() {
		return
	}
	if err := c.cache.Invalidate(ctx, keys...); err != nil {
		c.logger.ErrorContext(ctx, "content cache invalidation failed", "keys", keys, "error", err)
	}
}
