package aggregator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// BuildPropertyPerformance joins properties with their paid payments.
// Properties without payments are kept with zero revenue. The result is
// ordered by revenue, highest first; ties keep the input order.
func BuildPropertyPerformance(properties []domain.PropertyRecord, payments []domain.PaymentRecord) []domain.PropertyPerformance {
	revenue := make(map[string]decimal.Decimal, len(properties))
	for _, p := range payments {
		if p.Status != domain.PaymentStatusPaid {
			continue
		}
		revenue[p.PropertyID] = revenue[p.PropertyID].Add(decimal.NewFromFloat(p.Amount))
	}

	perf := make([]domain.PropertyPerformance, 0, len(properties))
	for _, p := range properties {
		total := revenue[p.ID].InexactFloat64()
		perf = append(perf, domain.PropertyPerformance{
			ID:                    p.ID,
			Name:                  p.Name,
			TotalUnits:            p.TotalUnits,
			OccupiedUnits:         p.OccupiedUnits,
			OccupancyRate:         OccupancyRate(p.OccupiedUnits, p.TotalUnits),
			MonthlyRent:           p.MonthlyRent,
			TotalRevenue:          total,
			AverageRevenuePerUnit: AverageRevenuePerUnit(total, p.OccupiedUnits),
		})
	}

	slices.SortStableFunc(perf, func(a, b domain.PropertyPerformance) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})
	return perf
}

// TopProperties returns the first n entries of perf after ranking by
// revenue. Equal revenues keep their relative order.
func TopProperties(perf []domain.PropertyPerformance, n int) []domain.PropertyPerformance {
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := slices.Clone(perf)
	slices.SortStableFunc(ranked, func(a, b domain.PropertyPerformance) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})
	return ranked[:min(n, len(ranked))]
}

// ApplyUnitCount overrides the unit figures of p with a unit level count.
// An empty count leaves p unchanged.
func ApplyUnitCount(p domain.PropertyPerformance, units domain.UnitCount) domain.PropertyPerformance {
	if units.Total == 0 {
		return p
	}
	p.TotalUnits = units.Total
	p.OccupiedUnits = units.Occupied
	p.OccupancyRate = OccupancyRate(units.Occupied, units.Total)
	p.AverageRevenuePerUnit = AverageRevenuePerUnit(p.TotalRevenue, units.Occupied)
	return p
}

// RevenueByProperty projects perf into name/amount pairs.
func RevenueByProperty(perf []domain.PropertyPerformance) []domain.PropertyAmount {
	out := make([]domain.PropertyAmount, 0, len(perf))
	for _, p := range perf {
		out = append(out, domain.PropertyAmount{Property: p.Name, Amount: p.TotalRevenue})
	}
	return out
}

// OccupancyByProperty projects perf into name/rate pairs.
func OccupancyByProperty(perf []domain.PropertyPerformance) []domain.PropertyRate {
	out := make([]domain.PropertyRate, 0, len(perf))
	for _, p := range perf {
		out = append(out, domain.PropertyRate{Property: p.Name, Rate: p.OccupancyRate})
	}
	return out
}

// TenantsByProperty counts active tenants per property, in perf order.
func TenantsByProperty(perf []domain.PropertyPerformance, tenants []domain.TenantRecord) []domain.PropertyCount {
	counts := make(map[string]int)
	for _, t := range tenants {
		if t.Status == domain.TenantStatusActive {
			counts[t.PropertyID]++
		}
	}
	out := make([]domain.PropertyCount, 0, len(perf))
	for _, p := range perf {
		out = append(out, domain.PropertyCount{Property: p.Name, Count: counts[p.ID]})
	}
	return out
}
