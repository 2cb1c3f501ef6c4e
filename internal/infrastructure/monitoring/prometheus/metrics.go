package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultDurationBuckets covers everything from fast cache hits to slow
// browser-driven scrapes.
var DefaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// AppMetrics bundles every metric the valuation service emits.
type AppMetrics struct {
	// HTTP surface.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Provider fan-out. kind is "plate" or "price".
	ProviderAttemptsTotal *prometheus.CounterVec
	ProviderDuration      *prometheus.HistogramVec

	// Valuation outcomes. source is the winning provider or "depreciation".
	ValuationsTotal *prometheus.CounterVec

	// Daily quota gate.
	QuotaAdmittedTotal prometheus.Counter
	QuotaRejectedTotal prometheus.Counter

	// Roster import pipeline.
	RosterRecordsTotal prometheus.Counter
	RosterSize         prometheus.Gauge
}

// NewAppMetrics registers the application metric set on the collector.
func NewAppMetrics(c *Collector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: c.newCounterVec(
			"http_requests_total",
			"HTTP requests by method, route and status code.",
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: c.newHistogramVec(
			"http_request_duration_seconds",
			"HTTP request latency by method and route.",
			DefaultDurationBuckets,
			[]string{"method", "route"},
		),
		ProviderAttemptsTotal: c.newCounterVec(
			"provider_attempts_total",
			"Provider lookups by kind, provider name and outcome.",
			[]string{"kind", "provider", "outcome"},
		),
		ProviderDuration: c.newHistogramVec(
			"provider_duration_seconds",
			"Provider lookup latency by kind and provider name.",
			DefaultDurationBuckets,
			[]string{"kind", "provider"},
		),
		ValuationsTotal: c.newCounterVec(
			"valuations_total",
			"Completed valuations by market price source.",
			[]string{"source"},
		),
		QuotaAdmittedTotal: c.newCounter(
			"quota_admitted_total",
			"Valuation requests admitted by the daily quota gate.",
		),
		QuotaRejectedTotal: c.newCounter(
			"quota_rejected_total",
			"Valuation requests rejected by the daily quota gate.",
		),
		RosterRecordsTotal: c.newCounter(
			"roster_records_imported_total",
			"Vehicle roster records written during imports.",
		),
		RosterSize: c.newGauge(
			"roster_vehicles",
			"Vehicles currently stored in the roster.",
		),
	}
}

// ObserveRosterImport records an import batch and the roster size it left
// behind.
func (m *AppMetrics) ObserveRosterImport(imported int, size int64) {
	m.RosterRecordsTotal.Add(float64(imported))
	m.RosterSize.Set(float64(size))
}
