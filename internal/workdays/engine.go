package workdays

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/working-days-api/internal/calendar"
	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

var engineTracer trace.Tracer = otel.Tracer("workdays/engine")

// Position classifies a local civil time against the business day.
type Position int

const (
	InHours Position = iota
	Weekend
	BeforeOpen
	AfterClose
	Lunch
)

func (p Position) String() string {
	switch p {
	case Weekend:
		return "weekend"
	case BeforeOpen:
		return "before_open"
	case AfterClose:
		return "after_close"
	case Lunch:
		return "lunch"
	default:
		return "in_hours"
	}
}

// snapRule moves a local civil time onto the business calendar.
type snapRule func(e *Engine, local time.Time) time.Time

// snapRules only ever move time backward or hold it.
var snapRules = map[Position]snapRule{
	Weekend: func(e *Engine, local time.Time) time.Time {
		d := timezone.DateOf(local)
		back := 1
		if d.Weekday() == time.Sunday {
			back = 2
		}
		return e.tz.At(d.AddDays(-back), e.hours.Close, 0)
	},
	BeforeOpen: func(e *Engine, local time.Time) time.Time {
		return e.tz.At(timezone.DateOf(local).AddDays(-1), e.hours.Close, 0)
	},
	AfterClose: func(e *Engine, local time.Time) time.Time {
		return e.tz.At(timezone.DateOf(local), e.hours.Close, 0)
	},
	Lunch: func(e *Engine, local time.Time) time.Time {
		return e.tz.At(timezone.DateOf(local), e.hours.LunchStart, 0)
	},
	InHours: func(_ *Engine, local time.Time) time.Time {
		return local
	},
}

// Engine adds business days and hours to instants. It is stateless; the
// holiday cache behind the calendar is the only shared state.
type Engine struct {
	cal    *calendar.Calendar
	tz     *timezone.Converter
	hours  calendar.Hours
	logger *logging.Logger
}

// NewEngine wires the engine to a calendar and converter.
func NewEngine(cal *calendar.Calendar, tz *timezone.Converter, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		cal:    cal,
		tz:     tz,
		hours:  cal.Hours(),
		logger: logger,
	}
}

// Classify places a local civil time relative to the business day. Holidays
// are not considered.
func (e *Engine) Classify(local time.Time) Position {
	switch hour := local.Hour(); {
	case timezone.DateOf(local).IsWeekend():
		return Weekend
	case hour < e.hours.Open:
		return BeforeOpen
	case hour >= e.hours.Close:
		return AfterClose
	case hour >= e.hours.LunchStart && hour < e.hours.LunchEnd:
		return Lunch
	default:
		return InHours
	}
}

// Normalize snaps an instant backward onto the nearest business moment and
// returns it as regional civil time.
func (e *Engine) Normalize(t time.Time) time.Time {
	local := e.tz.ToLocal(t)
	return snapRules[e.Classify(local)](e, local)
}

// AddDays advances n working days. After at least one step the result is
// pinned to opening time.
func (e *Engine) AddDays(ctx context.Context, t time.Time, n int) (time.Time, error) {
	if n <= 0 {
		return t, nil
	}
	d := e.tz.LocalDate(t)
	for added := 0; added < n; {
		d = d.AddDays(1)
		ok, err := e.cal.IsWorkingDay(ctx, d)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			added++
		}
	}
	return e.tz.At(d, e.hours.Open, 0), nil
}

// AddHours advances n working hours one absolute hour at a time. A step that
// leaves working hours is discarded in favor of the next working day's
// opening time, which does not count as an hour.
func (e *Engine) AddHours(ctx context.Context, t time.Time, n int) (time.Time, error) {
	current := e.tz.ToLocal(t)
	for added := 0; added < n; {
		next := e.tz.ToLocal(current.Add(time.Hour))
		ok, err := e.cal.IsWithinWorkingHours(ctx, next)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			current = next
			added++
			continue
		}
		day, err := e.cal.NextWorkingDay(ctx, timezone.DateOf(current))
		if err != nil {
			return time.Time{}, err
		}
		current = e.tz.At(day, e.hours.Open, 0)
	}
	return current, nil
}

// Calculate runs normalization, the day phase and the hour phase and returns
// the result in UTC. Any calendar error aborts the whole computation.
func (e *Engine) Calculate(ctx context.Context, req Request) (time.Time, error) {
	ctx, span := engineTracer.Start(ctx, "workdays.calculate", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := req.Start
	if start.IsZero() {
		start = e.tz.Now()
	}

	current := e.Normalize(start)
	span.SetAttributes(
		attribute.Int("workdays.days", req.Days),
		attribute.Int("workdays.hours", req.Hours),
		attribute.String("workdays.start_position", e.Classify(e.tz.ToLocal(start)).String()),
	)
	e.logger.Debug("starting calculation",
		"start", start.UTC(),
		"normalized", current,
		"days", req.Days,
		"hours", req.Hours,
	)

	var err error
	if req.Days > 0 {
		current, err = e.AddDays(ctx, current, req.Days)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "add days failed")
			return time.Time{}, err
		}
		e.logger.Debug("working days added", "days", req.Days, "result", current)
	}

	if req.Hours > 0 {
		current, err = e.AddHours(ctx, current, req.Hours)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "add hours failed")
			return time.Time{}, err
		}
		e.logger.Debug("working hours added", "hours", req.Hours, "result", current)
	}

	result := e.tz.ToUTC(current)
	e.logger.Debug("calculation complete", "result", result)
	return result, nil
}
