package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kulbasnet/launchwatch/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher keeps the launch snapshot cache warm on a cron schedule so
// the REST listing endpoints answer without an upstream round-trip.
type Refresher struct {
	launches services.LaunchProvider
	cache    *services.LaunchCache
	cron     *cron.Cron
	schedule string
	limit    int
	logger   *zap.Logger
	mu       sync.Mutex
	lastRun  time.Time
	running  bool
}

func NewRefresher(launches services.LaunchProvider, cache *services.LaunchCache, schedule string, limit int, logger *zap.Logger) *Refresher {
	return &Refresher{
		launches: launches,
		cache:    cache,
		cron:     cron.New(),
		schedule: schedule,
		limit:    limit,
		logger:   logger,
	}
}

func (r *Refresher) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		return err
	}

	r.logger.Info("Launch feed refresher started", zap.String("schedule", r.schedule))

	// Warm the cache right away instead of waiting for the first tick.
	go r.refresh()
	r.cron.Start()

	return nil
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.logger.Info("Stopping launch feed refresher")
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
}

func (r *Refresher) refresh() {
	r.mu.Lock()
	r.lastRun = time.Now()
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	launches := r.launches.ListAllUpcoming(ctx, r.limit)
	if len(launches) == 0 {
		r.logger.Warn("Launch feed refresh returned nothing; keeping previous snapshot",
			zap.Duration("duration", time.Since(start)))
		return
	}

	r.cache.Set(launches)
	r.logger.Info("Launch feed refreshed",
		zap.Int("launches", len(launches)),
		zap.Duration("duration", time.Since(start)))
}

func (r *Refresher) GetStatus() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	return map[string]interface{}{
		"running":  r.running,
		"schedule": r.schedule,
		"last_run": r.lastRun,
	}
}
