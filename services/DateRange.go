package services

import (
	"time"

	"investmanager.com/types"
)

const dateLayout = "2006-01-02"

// DateRange bounds are inclusive. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange reads YYYY-MM-DD bounds; the end date covers the whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return r, types.InvalidInput("start_date must be YYYY-MM-DD")
		}
		r.From = t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return r, types.InvalidInput("end_date must be YYYY-MM-DD")
		}
		r.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, types.InvalidInput("end_date is before start_date")
	}
	return r, nil
}
