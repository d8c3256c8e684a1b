package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// Sweeper periodically evicts idle sessions.
type Sweeper struct {
	store *Store
	idle  time.Duration
	cron  *cron.Cron
	log   *logger.Logger
}

// NewSweeper schedules Store.Sweep every interval. Both durations must be
// positive; cron would otherwise round a zero interval up to one second.
func NewSweeper(store *Store, interval, idle time.Duration, log *logger.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("session sweep interval must be positive, got %s", interval)
	}
	if idle <= 0 {
		return nil, fmt.Errorf("session idle timeout must be positive, got %s", idle)
	}

	sw := &Sweeper{
		store: store,
		idle:  idle,
		cron:  cron.New(),
		log:   log,
	}

	if _, err := sw.cron.AddFunc(fmt.Sprintf("@every %s", interval), sw.RunOnce); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return sw, nil
}

// RunOnce sweeps immediately.
func (sw *Sweeper) RunOnce() {
	removed := sw.store.Sweep(time.Now(), sw.idle)
	if removed > 0 {
		sw.log.Info("idle sessions evicted",
			zap.Int("removed", removed),
			zap.Int("remaining", sw.store.Len()),
		)
	}
}

// Start begins the schedule.
func (sw *Sweeper) Start() {
	sw.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (sw *Sweeper) Stop() {
	<-sw.cron.Stop().Done()
}
