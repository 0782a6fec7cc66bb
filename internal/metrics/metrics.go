package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for UpstreamRequests.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// UpstreamRequests counts calls to the prediction/history service.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forecastpulse",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// UpstreamLatency observes upstream round trips.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "forecastpulse",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Upstream request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// MalformedRecords counts upstream array entries that were not objects.
	MalformedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "forecastpulse",
		Subsystem: "pipeline",
		Name:      "malformed_records_total",
		Help:      "Upstream entries dropped during decoding.",
	}, []string{"kind"})

	// StaleServed counts responses answered from last-known-good data.
	StaleServed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "forecastpulse",
		Subsystem: "dashboard",
		Name:      "stale_served_total",
		Help:      "Loads answered from a previous dataset after a fetch failure.",
	})

	// LoadsDiscarded counts loads that finished after a newer load for the
	// same ticker had already been published.
	LoadsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "forecastpulse",
		Subsystem: "dashboard",
		Name:      "loads_discarded_total",
		Help:      "Out-of-order loads dropped instead of overwriting fresher state.",
	})
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
