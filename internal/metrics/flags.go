package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation results recorded by FlagMetrics.
const (
	ResultOK         = "ok"
	ResultNotFound   = "not_found"
	ResultConflict   = "conflict"
	ResultBadRequest = "bad_request"
	ResultError      = "error"
)

var (
	flagStoreFlagsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "flags_total",
			Help:      "Current number of stored feature flags",
		},
	)

	flagStoreFlagsEnabled = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "flags_enabled",
			Help:      "Current number of enabled feature flags",
		},
	)

	flagStoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Flag store operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	flagStoreCollectorLastUpdateTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "collector_last_update_timestamp",
			Help:      "Unix timestamp of the last flag count refresh",
		},
	)
)

// FlagMetrics is what the API layer records against. Pass NilFlagMetrics to
// disable collection.
type FlagMetrics interface {
	RecordOperation(operation, result string)
}

type StoreMetrics struct{}

func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{}
}

func (m *StoreMetrics) RecordOperation(operation, result string) {
	flagStoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

func (m *StoreMetrics) UpdateFlagCounts(total, enabled int) {
	flagStoreFlagsTotal.Set(float64(total))
	flagStoreFlagsEnabled.Set(float64(enabled))
	flagStoreCollectorLastUpdateTimestamp.Set(float64(time.Now().Unix()))
}

type NilFlagMetrics struct{}

func (NilFlagMetrics) RecordOperation(operation, result string) {}
