// Package aggregator reduces normalized records into summary scalars,
// per-property breakdowns and derived ratios. Every function is pure and
// returns 0 rather than NaN or Inf when a denominator is empty.
package aggregator

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// Uncategorized labels maintenance requests without a category or priority
const Uncategorized = "uncategorized"

// DefaultTopN is the number of properties kept by TopProperties
const DefaultTopN = 3

var priorities = []string{"urgent", "high", "medium", "low"}

// Sum adds amount(r) over records using exact decimal arithmetic.
func Sum[T any](records []T, amount func(T) float64) float64 {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(amount(r)))
	}
	return total.InexactFloat64()
}

// Filter returns the records for which keep reports true.
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// PaymentAmount is the amount accessor for payments
func PaymentAmount(p domain.PaymentRecord) float64 { return p.Amount }

// MaintenanceCost is the amount accessor for maintenance requests
func MaintenanceCost(m domain.MaintenanceRecord) float64 { return m.Cost }

// CollectionRate is completed / (completed + pending) as a percentage.
func CollectionRate(completed, pending float64) float64 {
	return percent(completed, completed+pending)
}

// OccupancyRate is occupied / total units as a percentage.
func OccupancyRate(occupied, total int) float64 {
	return percent(float64(occupied), float64(total))
}

// PortfolioOccupancy is the unweighted mean of per-property occupancy rates.
func PortfolioOccupancy(perf []domain.PropertyPerformance) float64 {
	if len(perf) == 0 {
		return 0
	}
	return Sum(perf, func(p domain.PropertyPerformance) float64 { return p.OccupancyRate }) / float64(len(perf))
}

// AverageRent is the mean monthly rent across properties.
func AverageRent(properties []domain.PropertyRecord) float64 {
	if len(properties) == 0 {
		return 0
	}
	return Sum(properties, func(p domain.PropertyRecord) float64 { return p.MonthlyRent }) / float64(len(properties))
}

// AverageRevenuePerUnit is revenue per occupied unit.
func AverageRevenuePerUnit(revenue float64, occupied int) float64 {
	return ratio(revenue, float64(occupied))
}

// PaymentCompliance is the percentage of payments that are paid on or
// before their due date. Payments missing either date count as late.
func PaymentCompliance(payments []domain.PaymentRecord) float64 {
	onTime := 0
	for _, p := range payments {
		if p.Status != domain.PaymentStatusPaid || p.PaymentDate.IsZero() || p.DueDate.IsZero() {
			continue
		}
		if !p.PaymentDate.After(p.DueDate) {
			onTime++
		}
	}
	return percent(float64(onTime), float64(len(payments)))
}

// AverageTenancyMonths is the mean lease length in 30-day months over tenants
// that have a lease. Open leases run until now.
func AverageTenancyMonths(tenants []domain.TenantRecord, leases []domain.LeaseRecord, now time.Time) float64 {
	firstLease := make(map[string]domain.LeaseRecord, len(leases))
	for _, l := range leases {
		if _, ok := firstLease[l.TenantID]; !ok {
			firstLease[l.TenantID] = l
		}
	}

	var total float64
	matched := 0
	for _, t := range tenants {
		lease, ok := firstLease[t.ID]
		if !ok || lease.StartDate.IsZero() {
			continue
		}
		end := lease.EndDate
		if end.IsZero() {
			end = now
		}
		total += end.Sub(lease.StartDate).Hours() / 24 / 30
		matched++
	}
	return ratio(total, float64(matched))
}

// AverageCompletionHours is the mean time from creation to completion over
// completed requests that carry both timestamps.
func AverageCompletionHours(requests []domain.MaintenanceRecord) float64 {
	var total float64
	completed := 0
	for _, r := range requests {
		if r.Status != domain.MaintenanceStatusCompleted || r.CompletedAt.IsZero() || r.CreatedAt.IsZero() {
			continue
		}
		total += r.CompletedAt.Sub(r.CreatedAt).Hours()
		completed++
	}
	return ratio(total, float64(completed))
}

// MaintenanceFrequency is requests per tenant.
func MaintenanceFrequency(requests, tenants int) float64 {
	return ratio(float64(requests), float64(tenants))
}

// GrowthRate is the percentage change from previous to current. A zero
// baseline reports 100 for any positive current value.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// CountByCategory histograms requests by category, largest first.
func CountByCategory(requests []domain.MaintenanceRecord) []domain.LabelCount {
	counts := countBy(requests, func(r domain.MaintenanceRecord) string { return r.Category })
	out := make([]domain.LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// CountByPriority histograms requests by priority. The four standard
// priorities are always present, in severity order, followed by any other
// labels in alphabetical order.
func CountByPriority(requests []domain.MaintenanceRecord) []domain.LabelCount {
	counts := countBy(requests, func(r domain.MaintenanceRecord) string { return r.Priority })

	out := make([]domain.LabelCount, 0, len(priorities)+len(counts))
	for _, p := range priorities {
		out = append(out, domain.LabelCount{Label: p, Count: counts[p]})
		delete(counts, p)
	}

	extra := make([]string, 0, len(counts))
	for label := range counts {
		extra = append(extra, label)
	}
	slices.Sort(extra)
	for _, label := range extra {
		out = append(out, domain.LabelCount{Label: label, Count: counts[label]})
	}
	return out
}

func countBy[T any](records []T, label func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		l := label(r)
		if l == "" {
			l = Uncategorized
		}
		counts[l]++
	}
	return counts
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percent(num, den float64) float64 {
	return ratio(num, den) * 100
}
