package leave

import (
	"errors"
	"time"
)

// CalculateDays returns the day count between start and end, inclusive of
// both endpoints.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// CalculateTotalDays returns the inclusive day count with optional
// half-day start/end boundaries. The smallest valid request is 0.5 days.
func CalculateTotalDays(start, end time.Time, startHalf, endHalf bool) (float64, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}

	if start.Equal(end) && startHalf && endHalf {
		return 0, errors.New("invalid half-day range")
	}

	if startHalf {
		days -= 0.5
	}
	if endHalf {
		days -= 0.5
	}
	if days < 0.5 {
		return 0, errors.New("invalid half-day range")
	}
	return days, nil
}
