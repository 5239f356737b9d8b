package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/working-days-api/internal/timezone"
)

// Hours are the local hour boundaries of a business day. Working hours are
// [Open, LunchStart) and [LunchEnd, Close).
type Hours struct {
	Open       int
	LunchStart int
	LunchEnd   int
	Close      int
}

// DefaultHours returns 08:00-17:00 with a 12:00-13:00 break.
func DefaultHours() Hours {
	return Hours{Open: 8, LunchStart: 12, LunchEnd: 13, Close: 17}
}

// Validate checks 0 <= Open < LunchStart <= LunchEnd < Close <= 24.
func (h Hours) Validate() error {
	if h.Open < 0 || h.Close > 24 || h.Open >= h.LunchStart || h.LunchStart > h.LunchEnd || h.LunchEnd >= h.Close {
		return fmt.Errorf("calendar: invalid business hours open=%d lunch=%d-%d close=%d",
			h.Open, h.LunchStart, h.LunchEnd, h.Close)
	}
	return nil
}

// HolidayChecker answers holiday membership for a local date.
type HolidayChecker interface {
	IsHoliday(ctx context.Context, d timezone.Date) (bool, error)
}

// Calendar answers working-day and working-hour questions. It holds no state
// of its own beyond its collaborators.
type Calendar struct {
	holidays HolidayChecker
	hours    Hours
}

// New builds a calendar over the holiday checker.
func New(holidays HolidayChecker, hours Hours) *Calendar {
	return &Calendar{holidays: holidays, hours: hours}
}

// Hours returns the configured business hours.
func (c *Calendar) Hours() Hours {
	return c.hours
}

// IsWorkingDay is false on weekends and holidays. Weekends never reach the
// holiday cache.
func (c *Calendar) IsWorkingDay(ctx context.Context, d timezone.Date) (bool, error) {
	if d.IsWeekend() {
		return false, nil
	}
	holiday, err := c.holidays.IsHoliday(ctx, d)
	if err != nil {
		return false, err
	}
	return !holiday, nil
}

// InWorkingHour reports whether a local hour lies in working hours,
// ignoring the date.
func (c *Calendar) InWorkingHour(hour int) bool {
	h := c.hours
	return (hour >= h.Open && hour < h.LunchStart) || (hour >= h.LunchEnd && hour < h.Close)
}

// IsWithinWorkingHours checks the date and the hour field of a local civil
// time. Minutes and seconds are not examined.
func (c *Calendar) IsWithinWorkingHours(ctx context.Context, local time.Time) (bool, error) {
	if !c.InWorkingHour(local.Hour()) {
		return false, nil
	}
	return c.IsWorkingDay(ctx, timezone.DateOf(local))
}

// NextWorkingDay returns the first working day strictly after d.
func (c *Calendar) NextWorkingDay(ctx context.Context, d timezone.Date) (timezone.Date, error) {
	next := d.AddDays(1)
	for {
		ok, err := c.IsWorkingDay(ctx, next)
		if err != nil {
			return timezone.Date{}, err
		}
		if ok {
			return next, nil
		}
		next = next.AddDays(1)
	}
}
