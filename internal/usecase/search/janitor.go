package search

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Janitor periodically removes expired cache entries. Correctness comes from
// lazy expiry on Get; the janitor is optional and only bounds memory/disk.
type Janitor struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// StartJanitor schedules cache.Sweep on the given cron spec (for example
// "@every 10m") and starts it. Stop the returned Janitor on shutdown.
func StartJanitor(spec string, cache Cache, logger *slog.Logger) (*Janitor, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		removed := cache.Sweep()
		if removed > 0 {
			logger.Debug("cache sweep", "removed", removed, "remaining", cache.Len())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cache sweep: %w", err)
	}
	c.Start()
	return &Janitor{cron: c, logger: logger}, nil
}

// Stop halts the sweep schedule. Does not wait for a running sweep.
func (j *Janitor) Stop() {
	j.cron.Stop()
}
