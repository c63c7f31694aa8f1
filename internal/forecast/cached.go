package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/storage"
	"github.com/coe-acad/p2p-solar-trade/pkg/cache"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// CachedSource wraps a Source with an in-memory TTL cache and a durable
// write-through copy in the repository. The durable copy serves as a
// fallback when the upstream service is unreachable and the in-memory
// cache is cold (fresh process start).
type CachedSource struct {
	source Source
	cache  cache.Cache
	repo   storage.Repository
	ttl    time.Duration
	logger *zap.Logger
}

// CachedConfig holds configuration for CachedSource.
type CachedConfig struct {
	Source Source
	Cache  cache.Cache
	Repo   storage.Repository
	TTL    time.Duration
	Logger *zap.Logger
}

// NewCachedSource creates a caching wrapper around src.
func NewCachedSource(cfg *CachedConfig) *CachedSource {
	return &CachedSource{
		source: cfg.Source,
		cache:  cfg.Cache,
		repo:   cfg.Repo,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}
}

// Slots returns the base slots for date, from cache when fresh.
func (c *CachedSource) Slots(ctx context.Context, date string) ([]types.BaseSlot, error) {
	key := "forecast:" + date

	if cached, found := c.cache.Get(key); found {
		if slots, ok := cached.([]types.BaseSlot); ok {
			return slots, nil
		}
	}

	slots, err := c.source.Slots(ctx, date)
	if err != nil {
		// Upstream down: fall back to the durable copy if it is still
		// inside the TTL.
		var stale []types.BaseSlot
		found, readErr := storage.ReadCache(c.repo, storage.KeyForecastCache, c.ttl, &stale)
		if readErr == nil && found {
			c.logger.Warn("forecast-fallback-to-persisted",
				zap.String("date", date),
				zap.Error(err))
			return stale, nil
		}

		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	c.cache.Set(key, slots, c.ttl)

	// Persistence is best effort; a failed write never fails the read.
	writeErr := storage.WriteCache(c.repo, storage.KeyForecastCache, slots)
	if writeErr != nil {
		c.logger.Debug("forecast-cache-write-failed", zap.Error(writeErr))
	}

	return slots, nil
}
