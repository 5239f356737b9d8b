package holidays

import (
	"sort"
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/wolfman30/working-days-api/internal/timezone"
)

// Set is an immutable collection of holiday dates. A refresh replaces the
// whole set; it is never edited in place.
type Set struct {
	dates    []timezone.Date
	calendar *cal.BusinessCalendar
}

// NewSet builds a set from dates, dropping duplicates. Each date becomes a
// single-year holiday on the underlying business calendar.
func NewSet(dates []timezone.Date) *Set {
	seen := make(map[timezone.Date]struct{}, len(dates))
	unique := make([]timezone.Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })

	bc := cal.NewBusinessCalendar()
	for _, d := range unique {
		bc.AddHoliday(&cal.Holiday{
			Name:      d.String(),
			Month:     d.Month,
			Day:       d.Day,
			StartYear: d.Year,
			EndYear:   d.Year,
			Func:      cal.CalcDayOfMonth,
		})
	}

	return &Set{dates: unique, calendar: bc}
}

// Contains reports whether d is a holiday.
func (s *Set) Contains(d timezone.Date) bool {
	if s == nil || len(s.dates) == 0 {
		return false
	}
	actual, _, _ := s.calendar.IsHoliday(time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC))
	return actual
}

// Dates returns the sorted holiday dates. The slice is a copy.
func (s *Set) Dates() []timezone.Date {
	if s == nil {
		return nil
	}
	out := make([]timezone.Date, len(s.dates))
	copy(out, s.dates)
	return out
}

// Len returns the number of distinct holidays.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}
