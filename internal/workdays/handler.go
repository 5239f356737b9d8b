package workdays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/working-days-api/internal/observability/metrics"
	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

const (
	serviceName    = "Working Days Calculator API"
	serviceVersion = "1.0.0"
)

// HolidayLister lists every known holiday, refreshing if needed.
type HolidayLister interface {
	ListAll(ctx context.Context) ([]timezone.Date, error)
}

// Handler serves the working-days HTTP endpoints.
type Handler struct {
	engine   *Engine
	holidays HolidayLister
	tz       *timezone.Converter
	limits   Limits
	metrics  *metrics.WorkdaysMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Engine    *Engine
	Holidays  HolidayLister
	Converter *timezone.Converter
	Limits    Limits
	Metrics   *metrics.WorkdaysMetrics
	Logger    *logging.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	return &Handler{
		engine:   cfg.Engine,
		holidays: cfg.Holidays,
		tz:       cfg.Converter,
		limits:   cfg.Limits,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

type calculateResponse struct {
	Date string `json:"date"`
}

type holidaysResponse struct {
	Holidays []timezone.Date `json:"holidays"`
	Count    int             `json:"count"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Calculate handles GET /api/working-days.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	logger := h.requestLogger(r)

	req, err := ParseRequest(r.URL.Query(), h.limits)
	if err != nil {
		h.fail(w, logger, err, started)
		return
	}
	logger.Info("calculating working date",
		"days", req.Days,
		"hours", req.Hours,
		"date", r.URL.Query().Get("date"),
	)

	result, err := h.engine.Calculate(r.Context(), req)
	if err != nil {
		h.fail(w, logger, err, started)
		return
	}

	resp := calculateResponse{Date: timezone.FormatUTCISO(result, req.Precision)}
	h.metrics.ObserveRequest("ok", time.Since(started).Seconds())
	logger.Info("calculation completed", "result", resp.Date)
	writeJSON(w, http.StatusOK, resp)
}

// ListHolidays handles GET /api/holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)
	dates, err := h.holidays.ListAll(r.Context())
	if err != nil {
		logger.Error("list holidays failed", "error", err)
		writeError(w, err)
		return
	}
	if dates == nil {
		dates = []timezone.Date{}
	}
	writeJSON(w, http.StatusOK, holidaysResponse{Holidays: dates, Count: len(dates)})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": timezone.FormatUTCISO(h.now(), timezone.PrecisionMillisecond),
		"timezone":  h.tz.Location().String(),
		"service":   serviceName,
	})
}

// Info handles GET / with a static description of the service.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        serviceName,
		"version":     serviceVersion,
		"description": "Adds Colombian business days and hours to an instant",
		"endpoints": map[string]string{
			"GET /api/working-days": "Calculate a working date",
			"GET /api/holidays":     "List the national holidays in use",
			"GET /health":           "Health check",
			"GET /metrics":          "Prometheus metrics",
		},
		"parameters": map[string]string{
			"days":  "Business days to add (optional, non-negative integer)",
			"hours": "Business hours to add (optional, non-negative integer)",
			"date":  "Start instant in UTC ISO 8601 with Z suffix (optional, defaults to now)",
		},
	})
}

// NotFound renders unknown routes as JSON.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:   "Not Found",
		Message: fmt.Sprintf("Route %s %s not found", r.Method, r.URL.RequestURI()),
	})
}

func (h *Handler) fail(w http.ResponseWriter, logger *logging.Logger, err error, started time.Time) {
	code := ErrorCode(err)
	h.metrics.ObserveRequest(outcomeLabel(code), time.Since(started).Seconds())
	if code == CodeInvalidParameters {
		logger.Warn("invalid request", "error", err)
	} else {
		logger.Error("calculation failed", "error", err, "code", code)
	}
	writeError(w, err)
}

func (h *Handler) requestLogger(r *http.Request) *logging.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return &logging.Logger{Logger: h.logger.With("request_id", id)}
	}
	return h.logger
}

func outcomeLabel(code string) string {
	switch code {
	case CodeInvalidParameters:
		return "invalid"
	case CodeExternalAPI:
		return "external_error"
	default:
		return "internal_error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), errorResponse{
		Error:   ErrorCode(err),
		Message: publicMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
