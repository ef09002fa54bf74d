package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/domain"
)

// Cache stores recommended columns by position key.
type Cache interface {
	GetColumn(ctx context.Context, key string) (int, bool, error)
	SetColumn(ctx context.Context, key string, column int) error
}

// Cached remembers the answers of a deterministic strategy. Cache failures
// are logged and fall through to the wrapped strategy.
type Cached struct {
	next   Strategy
	cache  Cache
	logger *zap.Logger
}

func NewCached(next Strategy, cache Cache, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, cache: cache, logger: logger.Named("cache")}
}

func (c *Cached) Name() string {
	return c.next.Name()
}

func CacheKey(strategy string, g *domain.Game, depth int) string {
	return fmt.Sprintf("%s:%d:%016x", strategy, depth, g.PositionKey())
}

func (c *Cached) RecommendColumn(ctx context.Context, g *domain.Game, depth int) (int, error) {
	key := CacheKey(c.next.Name(), g, depth)

	col, ok, err := c.cache.GetColumn(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	case ok && g.Board().CanDrop(col):
		return col, nil
	}

	col, err = c.next.RecommendColumn(ctx, g, depth)
	if err != nil {
		return -1, err
	}

	if err := c.cache.SetColumn(ctx, key, col); err != nil {
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
	return col, nil
}
