package services

import (
	"sync"
	"time"

	"github.com/kulbasnet/launchwatch/internal/models"
	"go.uber.org/zap"
)

// LaunchCache holds the most recent upcoming-launch snapshot for the REST
// listing endpoints. Correlation requests never read it: they always fetch
// fresh so derived fields stay request-scoped. Cached launches are
// serialize-only; nothing mutates them.
type LaunchCache struct {
	mu        sync.RWMutex
	snapshot  []*models.Launch
	fetchedAt time.Time
	expiresAt time.Time
	ttl       time.Duration
	hits      int
	misses    int
	logger    *zap.Logger
}

func NewLaunchCache(ttl time.Duration, logger *zap.Logger) *LaunchCache {
	return &LaunchCache{
		ttl:    ttl,
		logger: logger,
	}
}

func (c *LaunchCache) Set(launches []*models.Launch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = launches
	c.fetchedAt = time.Now()
	c.expiresAt = c.fetchedAt.Add(c.ttl)

	c.logger.Debug("Launch snapshot cached",
		zap.Int("launches", len(launches)),
		zap.Time("expires_at", c.expiresAt))
}

// Get returns the snapshot while it is fresh.
func (c *LaunchCache) Get() ([]*models.Launch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || time.Now().After(c.expiresAt) {
		c.misses++
		return nil, false
	}

	c.hits++
	return c.snapshot, true
}

func (c *LaunchCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"launches":   len(c.snapshot),
		"fetched_at": c.fetchedAt,
		"expires_at": c.expiresAt,
		"hits":       c.hits,
		"misses":     c.misses,
		"ttl":        c.ttl.String(),
	}
}
