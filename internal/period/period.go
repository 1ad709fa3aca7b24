// Package period turns period filters into concrete windows and trend buckets.
package period

import (
	"time"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// DefaultBuckets is the number of monthly trend buckets
const DefaultBuckets = 6

// Resolve converts filter into a concrete [start, end) window ending at now.
// Custom filters use their bounds verbatim; a missing bound falls back to the
// monthly default. Reversed custom ranges are returned as-is.
func Resolve(filter domain.PeriodFilter, now time.Time) domain.Period {
	end := now
	var start time.Time

	switch filter.Kind {
	case domain.PeriodDaily:
		start = startOfDay(now)
	case domain.PeriodWeekly:
		start = now.AddDate(0, 0, -7)
	case domain.PeriodQuarterly:
		start = addMonths(now, -3)
	case domain.PeriodYearly:
		start = addMonths(now, -12)
	case domain.PeriodCustom:
		start = addMonths(now, -1)
		if filter.Start != nil {
			start = *filter.Start
		}
		if filter.End != nil {
			end = *filter.End
		}
	default:
		start = addMonths(now, -1)
	}

	return domain.Period{Start: start, End: end}
}

// Bucketize returns count contiguous calendar-month buckets, oldest first,
// the last one being the month that contains p.End.
func Bucketize(p domain.Period, count int) []domain.Period {
	if count <= 0 {
		count = DefaultBuckets
	}

	last := startOfMonth(p.End)
	buckets := make([]domain.Period, count)
	for i := range buckets {
		start := last.AddDate(0, i-(count-1), 0)
		buckets[i] = domain.Period{Start: start, End: start.AddDate(0, 1, 0)}
	}
	return buckets
}

// Previous returns the window of equal length immediately before p.
func Previous(p domain.Period) domain.Period {
	return domain.Period{Start: p.Start.Add(-p.Duration()), End: p.Start}
}

// Span returns the smallest window covering every given period.
func Span(periods ...domain.Period) domain.Period {
	var span domain.Period
	for i, p := range periods {
		start, end := p.Start, p.End
		if end.Before(start) {
			start, end = end, start
		}
		if i == 0 || start.Before(span.Start) {
			span.Start = start
		}
		if i == 0 || end.After(span.End) {
			span.End = end
		}
	}
	return span
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// addMonths moves t by n calendar months, clamping the day to the last day
// of the target month.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	day := min(t.Day(), daysIn(target.Year(), target.Month(), t.Location()))
	return target.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
