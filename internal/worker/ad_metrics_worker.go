package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nabih-app/nabih-api/internal/repository"
)

// AdMetricsWorker periodically recomputes CTR from the raw impression and
// click counters. Impressions and clicks are written on the hot path;
// the derived ratio is not.
type AdMetricsWorker struct {
	adRepo   *repository.AdRepository
	interval time.Duration
}

// NewAdMetricsWorker constructs an AdMetricsWorker.
func NewAdMetricsWorker(adRepo *repository.AdRepository, interval time.Duration) *AdMetricsWorker {
	return &AdMetricsWorker{
		adRepo:   adRepo,
		interval: interval,
	}
}

// Start begins the periodic recompute loop and listens for context cancellation.
func (w *AdMetricsWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting ad metrics worker")

	w.run()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Ad metrics worker stopped")
			return
		}
	}
}

func (w *AdMetricsWorker) run() {
	updated, err := w.adRepo.RecomputeCTR()
	if err != nil {
		log.Error().Err(err).Msg("Failed to recompute ad CTR")
		return
	}
	if updated > 0 {
		log.Debug().Int64("updated", updated).Msg("Ad CTR recomputed")
	}
}
