// Package trend partitions an already fetched record set into period buckets
// and reduces each bucket to a single value.
package trend

import (
	"time"

	"github.com/kurihiro0119/property-analytics/internal/aggregator"
	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// Build returns one point per bucket, in bucket order. Records are assigned
// to a bucket when in reports true; fn reduces each bucket's records.
func Build[T any](buckets []domain.Period, records []T, in func(T, domain.Period) bool, fn func([]T) float64) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		matched := aggregator.Filter(records, func(r T) bool { return in(r, b) })
		points = append(points, domain.TrendPoint{
			Label: Label(b.Start),
			Start: b.Start,
			Value: fn(matched),
		})
	}
	return points
}

// Label is the short month name of t, e.g. "Jan".
func Label(t time.Time) string {
	return t.Month().String()[:3]
}

// Revenue sums paid payments by payment date.
func Revenue(buckets []domain.Period, payments []domain.PaymentRecord) []domain.TrendPoint {
	return Build(buckets, payments,
		func(p domain.PaymentRecord, b domain.Period) bool {
			return p.Status == domain.PaymentStatusPaid && b.Contains(p.PaymentDate)
		},
		func(ps []domain.PaymentRecord) float64 { return aggregator.Sum(ps, aggregator.PaymentAmount) },
	)
}

// Maintenance counts requests by creation date.
func Maintenance(buckets []domain.Period, requests []domain.MaintenanceRecord) []domain.TrendPoint {
	return Build(buckets, requests,
		func(r domain.MaintenanceRecord, b domain.Period) bool { return b.Contains(r.CreatedAt) },
		func(rs []domain.MaintenanceRecord) float64 { return float64(len(rs)) },
	)
}

// Occupancy is the share of totalUnits held by distinct tenants whose lease
// overlaps the bucket, capped at 100.
func Occupancy(buckets []domain.Period, leases []domain.LeaseRecord, totalUnits int) []domain.TrendPoint {
	return Build(buckets, leases,
		func(l domain.LeaseRecord, b domain.Period) bool { return b.Overlaps(l.StartDate, l.EndDate) },
		func(ls []domain.LeaseRecord) float64 {
			tenants := make(map[string]struct{}, len(ls))
			for _, l := range ls {
				tenants[l.TenantID] = struct{}{}
			}
			return min(aggregator.OccupancyRate(len(tenants), totalUnits), 100)
		},
	)
}

// Growth compares the last point with the one before it.
func Growth(points []domain.TrendPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	return aggregator.GrowthRate(points[len(points)-1].Value, points[len(points)-2].Value)
}

// Total sums the values of points.
func Total(points []domain.TrendPoint) float64 {
	return aggregator.Sum(points, func(p domain.TrendPoint) float64 { return p.Value })
}
