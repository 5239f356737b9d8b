package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Embed the tz database so the regional zone resolves in minimal images.
	_ "time/tzdata"
)

// DefaultZone is the regional zone of the business calendar.
const DefaultZone = "America/Bogota"

// ErrInvalidDateFormat is returned when an input is not a UTC ISO-8601 instant
// ending in 'Z'.
var ErrInvalidDateFormat = errors.New("invalid date format")

// Precision is the precision class of a formatted instant.
type Precision int

const (
	PrecisionMillisecond Precision = iota
	PrecisionSecond
)

const (
	layoutMillis  = "2006-01-02T15:04:05.000Z"
	layoutSeconds = "2006-01-02T15:04:05Z"
)

// parseLayouts are the accepted ISO-8601 UTC forms. RFC3339Nano accepts an
// optional fraction of any length.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z",
}

// Converter maps instants between UTC and the regional zone.
type Converter struct {
	loc *time.Location
	now func() time.Time
}

// NewConverter loads the named IANA zone. Offsets come from the tz database,
// never from a fixed value.
func NewConverter(name string) (*Converter, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: load location %q: %w", name, err)
	}
	return &Converter{loc: loc, now: time.Now}, nil
}

// WithClock returns a copy of the converter that reads "now" from clock.
func (c *Converter) WithClock(clock func() time.Time) *Converter {
	cp := *c
	cp.now = clock
	return &cp
}

// Location returns the regional location.
func (c *Converter) Location() *time.Location {
	return c.loc
}

// ToLocal projects an instant onto regional civil time.
func (c *Converter) ToLocal(t time.Time) time.Time {
	return t.In(c.loc)
}

// ToUTC maps a civil time back to its UTC instant.
func (c *Converter) ToUTC(local time.Time) time.Time {
	return local.UTC()
}

// At builds the regional civil time hour:minute on date d. Times falling in a
// DST gap are normalized by the time package.
func (c *Converter) At(d Date, hour, minute int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, c.loc)
}

// LocalDate returns the regional calendar date of an instant.
func (c *Converter) LocalDate(t time.Time) Date {
	return DateOf(c.ToLocal(t))
}

// Now returns the current regional civil time.
func (c *Converter) Now() time.Time {
	return c.ToLocal(c.now())
}

// ParseUTCISO parses an ISO-8601 instant that must end with the UTC
// designator. Both conditions are required.
func ParseUTCISO(s string) (time.Time, Precision, error) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, 0, fmt.Errorf("%w: %q must end with \"Z\"", ErrInvalidDateFormat, s)
	}
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		p := PrecisionSecond
		if strings.Contains(s, ".") {
			p = PrecisionMillisecond
		}
		return t.UTC(), p, nil
	}
	return time.Time{}, 0, fmt.Errorf("%w: %q is not an ISO 8601 instant", ErrInvalidDateFormat, s)
}

// FormatUTCISO renders an instant in UTC with the 'Z' suffix.
func FormatUTCISO(t time.Time, p Precision) string {
	if p == PrecisionSecond {
		return t.UTC().Format(layoutSeconds)
	}
	return t.UTC().Format(layoutMillis)
}

// DebugInfo describes an instant on both sides of the conversion.
type DebugInfo struct {
	UTC            string `json:"utc"`
	Local          string `json:"local"`
	UTCFormatted   string `json:"utcFormatted"`
	LocalFormatted string `json:"localFormatted"`
	Zone           string `json:"zone"`
}

// Describe returns UTC and regional renderings of t.
func (c *Converter) Describe(t time.Time) DebugInfo {
	local := c.ToLocal(t)
	abbr, _ := local.Zone()
	return DebugInfo{
		UTC:            FormatUTCISO(t, PrecisionMillisecond),
		Local:          local.Format(time.RFC3339),
		UTCFormatted:   t.UTC().Format("2006-01-02 15:04:05") + " UTC",
		LocalFormatted: local.Format("2006-01-02 15:04:05") + " " + abbr,
		Zone:           c.loc.String(),
	}
}
