package viewcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks cache behavior per manager.
type Metrics struct {
	hits            *prometheus.CounterVec
	misses          *prometheus.CounterVec
	refreshFailures *prometheus.CounterVec
	lastRefreshUnix *prometheus.GaugeVec
	invalidations   *prometheus.CounterVec
}

// NewMetrics registers the cache metrics with reg.
// PRE: reg is non-nil and the metrics are not already registered on it
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := []string{"manager"}
	return &Metrics{
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mexxus",
			Subsystem: "viewcache",
			Name:      "hits_total",
			Help:      "Reads served from a valid cached snapshot.",
		}, labels),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mexxus",
			Subsystem: "viewcache",
			Name:      "misses_total",
			Help:      "Reads that required a fetch from storage.",
		}, labels),
		refreshFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mexxus",
			Subsystem: "viewcache",
			Name:      "refresh_failures_total",
			Help:      "Fetch attempts that failed and left the cache untouched.",
		}, labels),
		lastRefreshUnix: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mexxus",
			Subsystem: "viewcache",
			Name:      "last_refresh_unix_seconds",
			Help:      "Unix time of the last successful snapshot store.",
		}, labels),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mexxus",
			Subsystem: "viewcache",
			Name:      "invalidations_total",
			Help:      "Explicit cache invalidations.",
		}, labels),
	}
}

func (m *Metrics) hit(manager string) {
	if m != nil {
		m.hits.WithLabelValues(manager).Inc()
	}
}

func (m *Metrics) miss(manager string) {
	if m != nil {
		m.misses.WithLabelValues(manager).Inc()
	}
}

func (m *Metrics) refreshFailed(manager string) {
	if m != nil {
		m.refreshFailures.WithLabelValues(manager).Inc()
	}
}

func (m *Metrics) refreshed(manager string, unixSeconds float64) {
	if m != nil {
		m.lastRefreshUnix.WithLabelValues(manager).Set(unixSeconds)
	}
}

func (m *Metrics) invalidated(manager string) {
	if m != nil {
		m.invalidations.WithLabelValues(manager).Inc()
	}
}
