package analytics

import (
	"time"

	"github.com/kurihiro0119/property-analytics/internal/aggregator"
	"github.com/kurihiro0119/property-analytics/internal/domain"
	"github.com/kurihiro0119/property-analytics/internal/period"
	"github.com/kurihiro0119/property-analytics/internal/trend"
)

// windows are the intervals one computation works with
type windows struct {
	period   domain.Period
	buckets  []domain.Period
	previous *domain.Period
	// fetch covers everything above; sources are queried once over it
	fetch domain.Period
}

func newWindows(filter domain.PeriodFilter, now time.Time, bucketCount int) windows {
	p := period.Resolve(filter, now)
	w := windows{
		period:  p,
		buckets: period.Bucketize(p, bucketCount),
	}
	if filter.CompareWithPrevious {
		prev := period.Previous(p)
		w.previous = &prev
	}

	// A reversed range is queried as given so it matches nothing.
	if p.End.Before(p.Start) {
		w.fetch = p
		return w
	}
	spans := []domain.Period{p, period.Span(w.buckets...)}
	if w.previous != nil {
		spans = append(spans, *w.previous)
	}
	w.fetch = period.Span(spans...)
	return w
}

// assemble reduces the fetched records into a result. Top properties still
// carry their snapshot unit figures.
func assemble(r sourceRecords, w windows, filter domain.PeriodFilter, now time.Time, topN int) *domain.AnalyticsResult {
	p := w.period

	fin := aggregator.SummarizeFinancial(financialIn(r.financial, p))
	tenants := aggregator.SummarizeTenants(tenantsIn(r.tenant, p), p, now)
	requests := createdIn(r.maintenance.Requests, p)
	maint := aggregator.SummarizeMaintenance(requests)

	perf := aggregator.BuildPropertyPerformance(r.property.Properties, paidIn(r.property.Payments, p))
	top := aggregator.TopProperties(perf, topN)

	var totalUnits, occupiedUnits int
	for _, pp := range perf {
		totalUnits += pp.TotalUnits
		occupiedUnits += pp.OccupiedUnits
	}

	trends := domain.Trends{
		Revenue:     trend.Revenue(w.buckets, paidIn(r.financial.Revenue, w.fetch)),
		Occupancy:   trend.Occupancy(w.buckets, leasesIn(r.tenant.Leases, w.fetch), totalUnits),
		Maintenance: trend.Maintenance(w.buckets, createdIn(r.maintenance.Requests, w.fetch)),
	}

	var topProperty string
	if len(top) > 0 {
		topProperty = top[0].Name
	}

	result := &domain.AnalyticsResult{
		Period:     p,
		Timeframe:  filter.Kind,
		PropertyID: filter.PropertyID,
		Summary: domain.Summary{
			TotalRevenue:      fin.TotalRevenue,
			TotalExpenses:     fin.TotalExpenses,
			NetIncome:         fin.NetIncome,
			PendingAmount:     fin.PendingAmount,
			TotalProperties:   len(perf),
			TotalUnits:        totalUnits,
			OccupiedUnits:     occupiedUnits,
			OccupancyRate:     aggregator.PortfolioOccupancy(perf),
			AverageRent:       aggregator.AverageRent(r.property.Properties),
			TopProperty:       topProperty,
			TotalTenants:      tenants.TotalTenants,
			ActiveTenants:     tenants.ActiveTenants,
			NewTenants:        tenants.NewTenants,
			LeavingTenants:    tenants.LeavingTenants,
			MaintenanceCosts:  maint.TotalCost,
			TotalRequests:     maint.TotalRequests,
			OpenRequests:      maint.OpenRequests,
			CompletedRequests: maint.CompletedRequests,
		},
		Trends: trends,
		Breakdown: domain.Breakdown{
			RevenueByProperty:     aggregator.RevenueByProperty(perf),
			OccupancyByProperty:   aggregator.OccupancyByProperty(perf),
			TenantsByProperty:     aggregator.TenantsByProperty(perf, r.tenant.Tenants),
			TopProperties:         top,
			MaintenanceByCategory: maint.ByCategory,
			MaintenanceByPriority: maint.ByPriority,
		},
		Metrics: domain.Metrics{
			PaymentOnTimeRate:       tenants.PaymentCompliance,
			CollectionEfficiency:    fin.CollectionRate,
			MaintenanceResponseTime: maint.AverageCompletionHours,
			AverageMaintenanceCost:  maint.AverageCost,
			MaintenanceFrequency:    tenants.MaintenanceFrequency,
			AverageTenancyMonths:    tenants.AverageTenancyMonths,
			RevenueGrowth:           trend.Growth(trends.Revenue),
		},
	}

	if w.previous != nil {
		result.Comparison = compare(r, *w.previous, fin, tenants, maint, now)
	}
	return result
}

// compare reduces the previous window and reports growth against it
func compare(r sourceRecords, prev domain.Period, fin aggregator.FinancialSummary, tenants aggregator.TenantSummary, maint aggregator.MaintenanceSummary, now time.Time) *domain.Comparison {
	prevFin := aggregator.SummarizeFinancial(financialIn(r.financial, prev))
	prevTenants := aggregator.SummarizeTenants(tenantsIn(r.tenant, prev), prev, now)
	prevRequests := len(createdIn(r.maintenance.Requests, prev))

	return &domain.Comparison{
		PreviousPeriod:    prev,
		RevenueGrowth:     aggregator.GrowthRate(fin.TotalRevenue, prevFin.TotalRevenue),
		ExpenseGrowth:     aggregator.GrowthRate(fin.TotalExpenses, prevFin.TotalExpenses),
		NetIncomeGrowth:   aggregator.GrowthRate(fin.NetIncome, prevFin.NetIncome),
		MaintenanceGrowth: aggregator.GrowthRate(float64(maint.TotalRequests), float64(prevRequests)),
		NewTenantGrowth:   aggregator.GrowthRate(float64(tenants.NewTenants), float64(prevTenants.NewTenants)),
	}
}

// financialIn narrows each financial record list to p by its query date
func financialIn(r domain.FinancialRecords, p domain.Period) domain.FinancialRecords {
	return domain.FinancialRecords{
		Revenue:   paidIn(r.Revenue, p),
		Expenses:  aggregator.Filter(r.Expenses, func(m domain.MaintenanceRecord) bool { return p.Contains(m.CompletedAt) }),
		Pending:   aggregator.Filter(r.Pending, func(pay domain.PaymentRecord) bool { return p.Contains(pay.DueDate) }),
		Completed: paidIn(r.Completed, p),
	}
}

// tenantsIn narrows the windowed parts of r to p. Tenants and leases are
// snapshots and pass through.
func tenantsIn(r domain.TenantRecords, p domain.Period) domain.TenantRecords {
	return domain.TenantRecords{
		Tenants:     r.Tenants,
		Leases:      r.Leases,
		Payments:    paidIn(r.Payments, p),
		Maintenance: createdIn(r.Maintenance, p),
	}
}

func paidIn(payments []domain.PaymentRecord, p domain.Period) []domain.PaymentRecord {
	return aggregator.Filter(payments, func(pay domain.PaymentRecord) bool { return p.Contains(pay.PaymentDate) })
}

func createdIn(requests []domain.MaintenanceRecord, p domain.Period) []domain.MaintenanceRecord {
	return aggregator.Filter(requests, func(m domain.MaintenanceRecord) bool { return p.Contains(m.CreatedAt) })
}

func leasesIn(leases []domain.LeaseRecord, p domain.Period) []domain.LeaseRecord {
	if p.Duration() == 0 {
		return nil
	}
	return aggregator.Filter(leases, func(l domain.LeaseRecord) bool { return p.Overlaps(l.StartDate, l.EndDate) })
}
