package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Sweeper periodically expires sessions past their TTL. One sweeper runs for
// the lifetime of the process; it keeps no checkpoint, so after a restart the
// first sweep happens one interval after startup.
type Sweeper struct {
	service  ScoringService
	clock    clockwork.Clock
	interval time.Duration
	ttl      time.Duration
}

// NewSweeper creates a sweeper on the real clock.
func NewSweeper(svc ScoringService, interval, ttl time.Duration) *Sweeper {
	return NewSweeperWithClock(svc, clockwork.NewRealClock(), interval, ttl)
}

// NewSweeperWithClock creates a sweeper with an injectable clock for tests.
func NewSweeperWithClock(svc ScoringService, clock clockwork.Clock, interval, ttl time.Duration) *Sweeper {
	return &Sweeper{
		service:  svc,
		clock:    clock,
		interval: interval,
		ttl:      ttl,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. A sweep
// never returns an error to the loop; per-session failures are contained in
// ExpireStale.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := sw.clock.NewTicker(sw.interval)
	defer ticker.Stop()

	log.Info().
		Dur("interval", sw.interval).
		Dur("ttl", sw.ttl).
		Msg("expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.Chan():
			if removed := sw.service.ExpireStale(ctx, sw.clock.Now(), sw.ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("sweep removed stale sessions")
			}
		}
	}
}
