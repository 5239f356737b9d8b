package workdays

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wolfman30/working-days-api/internal/timezone"
)

// Request is a validated calculation request. A zero Start means now.
type Request struct {
	Days      int
	Hours     int
	HasDays   bool
	HasHours  bool
	Start     time.Time
	Precision timezone.Precision
}

// Limits bound the counts a request may ask for.
type Limits struct {
	MaxDays  int
	MaxHours int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxDays: 100000, MaxHours: 1000000}
}

// ParseRequest validates the days, hours and date query parameters.
func ParseRequest(q url.Values, limits Limits) (Request, error) {
	var req Request

	_, req.HasDays = q["days"]
	_, req.HasHours = q["hours"]
	if !req.HasDays && !req.HasHours {
		return Request{}, fmt.Errorf(`%w: at least one of "days" or "hours" parameter must be provided`, ErrInvalidParameters)
	}

	var err error
	if req.HasDays {
		if req.Days, err = parseCount("days", q.Get("days"), limits.MaxDays); err != nil {
			return Request{}, err
		}
	}
	if req.HasHours {
		if req.Hours, err = parseCount("hours", q.Get("hours"), limits.MaxHours); err != nil {
			return Request{}, err
		}
	}

	req.Precision = timezone.PrecisionMillisecond
	if _, ok := q["date"]; ok {
		start, precision, err := timezone.ParseUTCISO(q.Get("date"))
		if err != nil {
			return Request{}, fmt.Errorf(`%w: parameter "date" must be a valid ISO 8601 UTC date string ending with "Z": %w`, ErrInvalidParameters, err)
		}
		req.Start = start
		req.Precision = precision
	}

	return req, nil
}

// parseCount accepts only plain decimal digits.
func parseCount(name, raw string, limit int) (int, error) {
	if raw == "" || !isDigits(raw) {
		return 0, fmt.Errorf(`%w: parameter %q must be a non-negative integer`, ErrInvalidParameters, name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf(`%w: parameter %q is out of range`, ErrInvalidParameters, name)
	}
	if limit > 0 && n > limit {
		return 0, fmt.Errorf(`%w: parameter %q must not exceed %d`, ErrInvalidParameters, name, limit)
	}
	return n, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
