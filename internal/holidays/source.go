package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "WorkingDays-API/1.0"
)

// Snapshot is one fetched holiday list. FetchedAt is when the data was read
// from the authoritative endpoint.
type Snapshot struct {
	Dates     []timezone.Date `json:"dates"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Source fetches the authoritative holiday list.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// HTTPSource reads a JSON array of "YYYY-MM-DD" strings from a fixed URL.
type HTTPSource struct {
	httpClient *http.Client
	url        string
	logger     *logging.Logger
	now        func() time.Time
}

// NewHTTPSource constructs the holiday endpoint adapter. A non-positive
// timeout falls back to 10 seconds.
func NewHTTPSource(url string, timeout time.Duration, logger *logging.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPSource{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimSpace(url),
		logger:     logger,
		now:        time.Now,
	}
}

// Name identifies the source in metrics.
func (s *HTTPSource) Name() string { return "http" }

// Fetch downloads and decodes the holiday list.
func (s *HTTPSource) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("holidays: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("holidays: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("holidays: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		s.logger.Warn("holiday API non-2xx response", "status", resp.StatusCode, "body", msg)
		return Snapshot{}, fmt.Errorf("holidays: API returned %d", resp.StatusCode)
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("holidays: decode response: %w", err)
	}

	dates := make([]timezone.Date, 0, len(raw))
	for _, entry := range raw {
		d, err := timezone.ParseDate(strings.TrimSpace(entry))
		if err != nil {
			s.logger.Warn("skipping malformed holiday entry", "entry", entry)
			continue
		}
		dates = append(dates, d)
	}

	return Snapshot{Dates: dates, FetchedAt: s.now()}, nil
}
