package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkdaysMetrics exposes counters/histograms for calculations and the
// holiday cache.
type WorkdaysMetrics struct {
	requestsTotal      *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec
	holidayFetchTotal  *prometheus.CounterVec
	holidayFetchTime   *prometheus.HistogramVec
	holidayLookups     *prometheus.CounterVec
	holidaySetSize     prometheus.Gauge
}

func NewWorkdaysMetrics(reg prometheus.Registerer) *WorkdaysMetrics {
	m := &WorkdaysMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workdays",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total working-days calculations by outcome",
		}, []string{"outcome"}),
		calculationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "workdays",
			Subsystem: "api",
			Name:      "calculation_latency_seconds",
			Help:      "Latency of working-days calculations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		holidayFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workdays",
			Subsystem: "holidays",
			Name:      "fetch_total",
			Help:      "Total holiday list fetches by source and status",
		}, []string{"source", "status"}),
		holidayFetchTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "workdays",
			Subsystem: "holidays",
			Name:      "fetch_latency_seconds",
			Help:      "Latency of holiday list fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		holidayLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workdays",
			Subsystem: "holidays",
			Name:      "cache_lookups_total",
			Help:      "Holiday cache queries by cache state at query time",
		}, []string{"state"}),
		holidaySetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workdays",
			Subsystem: "holidays",
			Name:      "set_size",
			Help:      "Number of holidays in the current cached set",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.requestsTotal,
		m.calculationLatency,
		m.holidayFetchTotal,
		m.holidayFetchTime,
		m.holidayLookups,
		m.holidaySetSize,
	)
	return m
}

// ObserveRequest records one calculation outcome and its latency.
func (m *WorkdaysMetrics) ObserveRequest(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.calculationLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *WorkdaysMetrics) ObserveHolidayFetch(source, status string, seconds float64) {
	if m == nil {
		return
	}
	m.holidayFetchTotal.WithLabelValues(source, status).Inc()
	m.holidayFetchTime.WithLabelValues(source).Observe(seconds)
}

func (m *WorkdaysMetrics) ObserveCacheLookup(state string) {
	if m == nil {
		return
	}
	m.holidayLookups.WithLabelValues(state).Inc()
}

func (m *WorkdaysMetrics) SetHolidayCount(n int) {
	if m == nil {
		return
	}
	m.holidaySetSize.Set(float64(n))
}
