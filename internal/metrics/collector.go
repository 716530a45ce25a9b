package metrics

import (
	"time"

	"github.com/sirupsen/logrus"
)

// FlagCounter is the read side of the flag store the collector polls.
type FlagCounter interface {
	Len() int
	EnabledCount() int
}

// FlagStoreCollector periodically copies flag counts into gauges.
type FlagStoreCollector struct {
	store    FlagCounter
	metrics  *StoreMetrics
	logger   *logrus.Logger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewFlagStoreCollector(store FlagCounter, metrics *StoreMetrics, logger *logrus.Logger, interval time.Duration) *FlagStoreCollector {
	if interval <= 0 {
		interval = DefaultConfig().CollectInterval
	}
	return &FlagStoreCollector{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (c *FlagStoreCollector) Start() {
	c.logger.Info("Starting flag store metrics collector")

	go func() {
		defer close(c.doneCh)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				c.logger.Info("Stopping flag store metrics collector")
				return
			}
		}
	}()
}

// Stop blocks until the collector goroutine has exited.
func (c *FlagStoreCollector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *FlagStoreCollector) collect() {
	c.metrics.UpdateFlagCounts(c.store.Len(), c.store.EnabledCount())
}
