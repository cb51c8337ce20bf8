package warehouse

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mfginsight/internal/period"
)

// Catalog caches the available days and weeks used by the period selector
// and the resolver's week lookup. The warehouse only gains new dates once a
// day, so a periodically refreshed snapshot is plenty.
type Catalog struct {
	gw  *Gateway
	log *zap.Logger

	mu    sync.RWMutex
	days  []AvailableDay
	weeks []period.WeekWindow
}

// NewCatalog builds a Catalog over the given gateway. The cache starts cold;
// reads fall through to the warehouse until the first refresh.
func NewCatalog(gw *Gateway, log *zap.Logger) *Catalog {
	return &Catalog{gw: gw, log: log}
}

// Refresh re-reads both catalogs from the warehouse.
func (c *Catalog) Refresh(ctx context.Context) error {
	days, err := c.gw.AvailableDays(ctx)
	if err != nil {
		return err
	}
	weeks, err := c.gw.AvailableWeeks(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.days = days
	c.weeks = weeks
	c.mu.Unlock()
	return nil
}

// Start launches a background goroutine that refreshes the catalog once at
// startup and then on the given interval.
func (c *Catalog) Start(interval time.Duration) {
	go func() {
		if err := c.Refresh(context.Background()); err != nil {
			c.log.Warn("catalog refresh failed (startup)", zap.Error(err))
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := c.Refresh(context.Background()); err != nil {
				c.log.Warn("catalog refresh failed", zap.Error(err))
			}
		}
	}()
}

// AvailableDays returns the cached day catalog, querying the warehouse
// directly while the cache is cold.
func (c *Catalog) AvailableDays(ctx context.Context) ([]AvailableDay, error) {
	c.mu.RLock()
	days := c.days
	c.mu.RUnlock()
	if days != nil {
		return days, nil
	}
	return c.gw.AvailableDays(ctx)
}

// AvailableWeeks returns the cached week catalog, querying the warehouse
// directly while the cache is cold. Implements period.WeekSource.
func (c *Catalog) AvailableWeeks(ctx context.Context) ([]period.WeekWindow, error) {
	c.mu.RLock()
	weeks := c.weeks
	c.mu.RUnlock()
	if weeks != nil {
		return weeks, nil
	}
	return c.gw.AvailableWeeks(ctx)
}
