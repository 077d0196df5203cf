package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/repository"
)

// CacheCleanupWorker periodically purges expired rows from the search
// cache table. The Redis tier expires on its own; the table does not.
type CacheCleanupWorker struct {
	cacheRepo *repository.SearchCacheRepository
	maxAge    time.Duration
	interval  time.Duration
}

// NewCacheCleanupWorker constructs a CacheCleanupWorker.
func NewCacheCleanupWorker(cacheRepo *repository.SearchCacheRepository, maxAge, interval time.Duration) *CacheCleanupWorker {
	return &CacheCleanupWorker{
		cacheRepo: cacheRepo,
		maxAge:    maxAge,
		interval:  interval,
	}
}

// Start begins the periodic cleanup loop and listens for context cancellation.
func (w *CacheCleanupWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting cache cleanup worker")

	// Run immediately on start
	w.run()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Cache cleanup worker stopped")
			return
		}
	}
}

func (w *CacheCleanupWorker) run() {
	start := time.Now()
	removed, err := w.cacheRepo.DeleteExpired(w.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge expired cache rows")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Dur("duration", time.Since(start)).Msg("Cache cleanup completed")
	}
}
