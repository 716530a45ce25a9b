package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const namespace = "featureflags"

// Service names for metrics registration
const (
	ServiceHTTP  = "http"
	ServiceStore = "store"
)

// RegisterMetrics registers Go and process collectors plus the metrics of
// the given services.
func RegisterMetrics(services []string, registry *prometheus.Registry, logger *logrus.Logger) {
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", registry, logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", registry, logger)

	for _, service := range services {
		switch service {
		case ServiceHTTP:
			registerIfNotExists(httpRequestsTotal, "http_requests_total", registry, logger)
			registerIfNotExists(httpRequestDuration, "http_request_duration", registry, logger)
			registerIfNotExists(httpActiveRequests, "http_active_requests", registry, logger)
		case ServiceStore:
			registerIfNotExists(flagStoreFlagsTotal, "store_flags_total", registry, logger)
			registerIfNotExists(flagStoreFlagsEnabled, "store_flags_enabled", registry, logger)
			registerIfNotExists(flagStoreOperationsTotal, "store_operations_total", registry, logger)
			registerIfNotExists(flagStoreCollectorLastUpdateTimestamp, "store_collector_last_update_timestamp", registry, logger)
		default:
			logger.Warnf("Unknown service type for metrics registration: %s", service)
		}
	}
}

func registerIfNotExists(collector prometheus.Collector, name string, registry *prometheus.Registry, logger *logrus.Logger) {
	if err := registry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if !errors.As(err, &alreadyRegErr) {
			logger.Errorf("Failed to register %s: %v", name, err)
		}
	}
}
