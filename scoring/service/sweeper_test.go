package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingService stubs ScoringService to count sweeps.
type countingService struct {
	ScoringService
	sweeps atomic.Int64
}

func (c *countingService) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) int {
	c.sweeps.Add(1)
	return 0
}

func TestSweeper_TicksOncePerInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := &countingService{}
	sw := NewSweeperWithClock(svc, clock, time.Hour, 15*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sw.Run(ctx)
	}()

	// Wait for the run loop to park on the ticker before advancing.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Hour)
	assert.Eventually(t, func() bool {
		return svc.sweeps.Load() == 1
	}, time.Second, 5*time.Millisecond)

	clock.Advance(time.Hour)
	assert.Eventually(t, func() bool {
		return svc.sweeps.Load() == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}

func TestSweeper_NoSweepBeforeFirstInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := &countingService{}
	sw := NewSweeperWithClock(svc, clock, time.Hour, 15*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sw.Run(ctx)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(59 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), svc.sweeps.Load())
}
