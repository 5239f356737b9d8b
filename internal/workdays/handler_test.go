package workdays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/working-days-api/internal/holidays"
	"github.com/wolfman30/working-days-api/internal/observability/metrics"
	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

type stubLister struct {
	dates []timezone.Date
	err   error
}

func (s stubLister) ListAll(ctx context.Context) ([]timezone.Date, error) {
	return s.dates, s.err
}

func newTestHandler(t *testing.T) (*Handler, *stubHolidays, *prometheus.Registry) {
	t.Helper()
	engine, tz, stub := newTestEngine(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewWorkdaysMetrics(reg)
	h := NewHandler(HandlerConfig{
		Engine:    engine,
		Holidays:  stubLister{dates: testHolidays},
		Converter: tz,
		Metrics:   m,
		Logger:    logging.Discard(),
	})
	return h, stub, reg
}

func requestCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "workdays_api_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCalculateHandler(t *testing.T) {
	h, _, reg := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/working-days?days=1&date=2024-12-25T10:00:00.000Z", nil)
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"date": "2024-12-26T13:00:00.000Z"}, decodeBody(t, rec))
	assert.Equal(t, float64(1), requestCount(t, reg, "ok"))
}

func TestCalculateHandlerSecondPrecision(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/working-days?hours=3&date=2025-04-15T20:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-04-16T15:00:00Z", decodeBody(t, rec)["date"])
}

func TestCalculateHandlerInvalidParameters(t *testing.T) {
	h, stub, reg := newTestHandler(t)

	for _, target := range []string{
		"/api/working-days",
		"/api/working-days?days=abc",
		"/api/working-days?days=1&date=2025-04-10T15:00:00",
	} {
		rec := httptest.NewRecorder()
		h.Calculate(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		body := decodeBody(t, rec)
		assert.Equal(t, "InvalidParameters", body["error"])
		assert.NotEmpty(t, body["message"])
	}
	assert.Zero(t, stub.calls, "validation fails before any calendar query")
	assert.Equal(t, float64(3), requestCount(t, reg, "invalid"))
}

func TestCalculateHandlerExternalAPIError(t *testing.T) {
	h, stub, _ := newTestHandler(t)
	stub.err = fmt.Errorf("%w: holidays: API returned 502", holidays.ErrExternalAPI)

	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodGet, "/api/working-days?days=1&date=2025-04-15T15:00:00.000Z", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]any{
		"error":   "ExternalApiError",
		"message": "Unable to fetch holiday data from external service",
	}, decodeBody(t, rec))
}

func TestCalculateHandlerInternalError(t *testing.T) {
	h, stub, _ := newTestHandler(t)
	stub.err = fmt.Errorf("unexpected")

	rec := httptest.NewRecorder()
	h.Calculate(rec, httptest.NewRequest(http.MethodGet, "/api/working-days?days=1&date=2025-04-15T15:00:00.000Z", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "InternalError", body["error"])
	assert.NotContains(t, body["message"], "unexpected")
}

func TestListHolidaysHandler(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ListHolidays(rec, httptest.NewRequest(http.MethodGet, "/api/holidays", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body holidaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(testHolidays), body.Count)
	assert.Equal(t, testHolidays, body.Holidays)
}

func TestListHolidaysHandlerFailure(t *testing.T) {
	h, _, _ := newTestHandler(t)
	h.holidays = stubLister{err: fmt.Errorf("%w: timeout", holidays.ErrExternalAPI)}

	rec := httptest.NewRecorder()
	h.ListHolidays(rec, httptest.NewRequest(http.MethodGet, "/api/holidays", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthCheckHandler(t *testing.T) {
	h, _, _ := newTestHandler(t)
	h.now = func() time.Time { return time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"status":    "OK",
		"timestamp": "2025-04-15T12:00:00.000Z",
		"timezone":  "America/Bogota",
		"service":   "Working Days Calculator API",
	}, decodeBody(t, rec))
}

func TestInfoAndNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Info(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Working Days Calculator API", decodeBody(t, rec)["name"])

	rec = httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodPost, "/nope?x=1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{
		"error":   "Not Found",
		"message": "Route POST /nope?x=1 not found",
	}, decodeBody(t, rec))
}
