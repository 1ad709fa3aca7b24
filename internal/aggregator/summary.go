package aggregator

import (
	"time"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// FinancialSummary is the reduction of one period's financial records
type FinancialSummary struct {
	TotalRevenue    float64
	TotalExpenses   float64
	NetIncome       float64
	PendingAmount   float64
	CompletedAmount float64
	CollectionRate  float64
}

// SummarizeFinancial reduces financial records that already fall in one period.
func SummarizeFinancial(r domain.FinancialRecords) FinancialSummary {
	revenue := Sum(r.Revenue, PaymentAmount)
	expenses := Sum(r.Expenses, MaintenanceCost)
	pending := Sum(r.Pending, PaymentAmount)
	completed := Sum(r.Completed, PaymentAmount)

	return FinancialSummary{
		TotalRevenue:    revenue,
		TotalExpenses:   expenses,
		NetIncome:       revenue - expenses,
		PendingAmount:   pending,
		CompletedAmount: completed,
		CollectionRate:  CollectionRate(completed, pending),
	}
}

// TenantSummary is the reduction of one period's tenant records
type TenantSummary struct {
	TotalTenants         int
	ActiveTenants        int
	NewTenants           int
	LeavingTenants       int
	AverageTenancyMonths float64
	PaymentCompliance    float64
	MaintenanceFrequency float64
}

// SummarizeTenants reduces tenant records. Payments and maintenance must
// already be limited to p; tenants and leases are full snapshots.
func SummarizeTenants(r domain.TenantRecords, p domain.Period, now time.Time) TenantSummary {
	s := TenantSummary{
		TotalTenants:         len(r.Tenants),
		AverageTenancyMonths: AverageTenancyMonths(r.Tenants, r.Leases, now),
		PaymentCompliance:    PaymentCompliance(r.Payments),
		MaintenanceFrequency: MaintenanceFrequency(len(r.Maintenance), len(r.Tenants)),
	}
	for _, t := range r.Tenants {
		if t.Status == domain.TenantStatusActive {
			s.ActiveTenants++
		}
		if p.Contains(t.MoveInDate) {
			s.NewTenants++
		}
	}
	for _, l := range r.Leases {
		ended := l.Status == domain.LeaseStatusExpired || l.Status == domain.LeaseStatusTerminated
		if ended && p.Contains(l.EndDate) {
			s.LeavingTenants++
		}
	}
	return s
}

// MaintenanceSummary is the reduction of one period's maintenance requests
type MaintenanceSummary struct {
	TotalRequests          int
	OpenRequests           int
	CompletedRequests      int
	AverageCompletionHours float64
	TotalCost              float64
	AverageCost            float64
	ByPriority             []domain.LabelCount
	ByCategory             []domain.LabelCount
}

// SummarizeMaintenance reduces requests created in one period.
func SummarizeMaintenance(requests []domain.MaintenanceRecord) MaintenanceSummary {
	s := MaintenanceSummary{
		TotalRequests:          len(requests),
		AverageCompletionHours: AverageCompletionHours(requests),
		TotalCost:              Sum(requests, MaintenanceCost),
		ByPriority:             CountByPriority(requests),
		ByCategory:             CountByCategory(requests),
	}
	for _, r := range requests {
		if r.Status == domain.MaintenanceStatusCompleted {
			s.CompletedRequests++
		} else {
			s.OpenRequests++
		}
	}
	s.AverageCost = ratio(s.TotalCost, float64(len(requests)))
	return s
}
