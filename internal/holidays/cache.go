package holidays

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/wolfman30/working-days-api/internal/observability/metrics"
	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

// DefaultTTL is the maximum age of a cached holiday set.
const DefaultTTL = 24 * time.Hour

// ErrExternalAPI is returned when the holiday list could not be fetched.
var ErrExternalAPI = errors.New("external holiday API error")

var cacheTracer = otel.Tracer("workdays/holidays")

const refreshKey = "holidays"

type entry struct {
	set       *Set
	fetchedAt time.Time
	expired   bool
}

// Cache holds the current holiday set and refreshes it synchronously when it
// is older than the TTL. Concurrent stale callers share one fetch.
type Cache struct {
	source  Source
	ttl     time.Duration
	logger  *logging.Logger
	metrics *metrics.WorkdaysMetrics
	now     func() time.Time

	mu      sync.RWMutex
	current *entry
	flight  singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMetrics records fetch and lookup metrics.
func WithMetrics(m *metrics.WorkdaysMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates an empty (stale) cache over source.
func NewCache(source Source, ttl time.Duration, logger *logging.Logger, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	c := &Cache{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsHoliday reports whether d is a holiday, refreshing first when stale.
func (c *Cache) IsHoliday(ctx context.Context, d timezone.Date) (bool, error) {
	set, err := c.ensure(ctx)
	if err != nil {
		return false, err
	}
	return set.Contains(d), nil
}

// ListAll returns every cached holiday in ascending order, refreshing first
// when stale.
func (c *Cache) ListAll(ctx context.Context) ([]timezone.Date, error) {
	set, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return set.Dates(), nil
}

// Invalidate forces the next query to refresh. The previous set is kept so a
// failed refresh leaves the cache as it was.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current = &entry{set: c.current.set, fetchedAt: c.current.fetchedAt, expired: true}
	}
}

// Status describes the cache without triggering a fetch.
type Status struct {
	Fresh     bool      `json:"fresh"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Status reports the current cache state.
func (c *Cache) Status() Status {
	c.mu.RLock()
	e := c.current
	c.mu.RUnlock()
	if e == nil {
		return Status{}
	}
	return Status{
		Fresh:     c.fresh(e),
		Count:     e.set.Len(),
		FetchedAt: e.fetchedAt,
		ExpiresAt: e.fetchedAt.Add(c.ttl),
	}
}

func (c *Cache) fresh(e *entry) bool {
	return e != nil && !e.expired && c.now().Sub(e.fetchedAt) <= c.ttl
}

func (c *Cache) ensure(ctx context.Context) (*Set, error) {
	c.mu.RLock()
	e := c.current
	c.mu.RUnlock()
	if c.fresh(e) {
		c.metrics.ObserveCacheLookup("fresh")
		return e.set, nil
	}
	c.metrics.ObserveCacheLookup("stale")

	// The flight outlives any single caller's cancellation; the source's own
	// timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.flight.Do(refreshKey, func() (any, error) {
		return c.refresh(flightCtx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Set), nil
}

func (c *Cache) refresh(ctx context.Context) (*Set, error) {
	c.mu.RLock()
	e := c.current
	c.mu.RUnlock()
	if c.fresh(e) {
		return e.set, nil
	}

	ctx, span := cacheTracer.Start(ctx, "holidays.refresh")
	defer span.End()

	sourceName := sourceLabel(c.source)
	c.logger.Info("updating holidays cache", "source", sourceName)
	start := time.Now()
	snap, err := c.source.Fetch(ctx)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.metrics.ObserveHolidayFetch(sourceName, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "holiday fetch failed")
		c.logger.Error("failed to fetch holidays", "source", sourceName, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExternalAPI, err)
	}
	c.metrics.ObserveHolidayFetch(sourceName, "ok", elapsed)

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = c.now()
	}
	set := NewSet(snap.Dates)

	c.mu.Lock()
	c.current = &entry{set: set, fetchedAt: fetchedAt}
	c.mu.Unlock()

	c.metrics.SetHolidayCount(set.Len())
	span.SetAttributes(
		attribute.String("holidays.source", sourceName),
		attribute.Int("holidays.count", set.Len()),
	)
	c.logger.Info("holidays cache updated", "count", set.Len(), "fetched_at", fetchedAt)
	return set, nil
}

func sourceLabel(s Source) string {
	if named, ok := s.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "custom"
}
