package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestWorkdaysMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkdaysMetrics(reg)

	m.ObserveRequest("ok", 0.002)
	m.ObserveRequest("ok", 0.004)
	m.ObserveRequest("invalid", 0.001)
	m.ObserveHolidayFetch("http", "ok", 0.3)
	m.ObserveCacheLookup("fresh")
	m.SetHolidayCount(18)

	requests := gatherFamily(t, reg, "workdays_api_requests_total")
	counts := map[string]float64{}
	for _, metric := range requests.GetMetric() {
		counts[labelValue(metric, "outcome")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 2.0, counts["ok"])
	assert.Equal(t, 1.0, counts["invalid"])

	fetches := gatherFamily(t, reg, "workdays_holidays_fetch_total")
	require.Len(t, fetches.GetMetric(), 1)
	assert.Equal(t, "http", labelValue(fetches.GetMetric()[0], "source"))

	size := gatherFamily(t, reg, "workdays_holidays_set_size")
	assert.Equal(t, 18.0, size.GetMetric()[0].GetGauge().GetValue())
}

func TestWorkdaysMetricsNilSafe(t *testing.T) {
	var m *WorkdaysMetrics
	m.ObserveRequest("ok", 0.1)
	m.ObserveHolidayFetch("http", "error", 0.1)
	m.ObserveCacheLookup("stale")
	m.SetHolidayCount(3)
}
