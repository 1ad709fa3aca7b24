package aggregator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRatiosAreZeroSafe(t *testing.T) {
	tests := []struct {
		name string
		got  float64
	}{
		{"collection rate without payments", CollectionRate(0, 0)},
		{"occupancy without units", OccupancyRate(0, 0)},
		{"occupancy with occupied but no units", OccupancyRate(3, 0)},
		{"revenue per unit without occupied units", AverageRevenuePerUnit(1200, 0)},
		{"payment compliance without payments", PaymentCompliance(nil)},
		{"maintenance frequency without tenants", MaintenanceFrequency(4, 0)},
		{"portfolio occupancy without properties", PortfolioOccupancy(nil)},
		{"average rent without properties", AverageRent(nil)},
		{"tenancy without tenants", AverageTenancyMonths(nil, nil, now)},
		{"completion time without requests", AverageCompletionHours(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, tt.got)
			assert.False(t, math.IsNaN(tt.got) || math.IsInf(tt.got, 0))
		})
	}
}

func TestSumUsesExactArithmetic(t *testing.T) {
	payments := []domain.PaymentRecord{{Amount: 0.1}, {Amount: 0.2}, {Amount: 0.3}}
	assert.Equal(t, 0.6, Sum(payments, PaymentAmount))
}

func TestCollectionRate(t *testing.T) {
	assert.InDelta(t, 75.0, CollectionRate(300, 100), 1e-9)
	assert.InDelta(t, 100.0, CollectionRate(300, 0), 1e-9)
}

func TestPortfolioOccupancyIsUnweighted(t *testing.T) {
	perf := BuildPropertyPerformance([]domain.PropertyRecord{
		{ID: "a", TotalUnits: 100, OccupiedUnits: 100},
		{ID: "b", TotalUnits: 2, OccupiedUnits: 0},
	}, nil)

	assert.InDelta(t, 50.0, PortfolioOccupancy(perf), 1e-9)
}

func TestPaymentCompliance(t *testing.T) {
	payments := []domain.PaymentRecord{
		{Status: "paid", PaymentDate: day(2024, 5, 1), DueDate: day(2024, 5, 1)},
		{Status: "paid", PaymentDate: day(2024, 5, 9), DueDate: day(2024, 5, 1)},
		{Status: "pending", PaymentDate: day(2024, 4, 1), DueDate: day(2024, 5, 1)},
		{Status: "paid", DueDate: day(2024, 5, 1)},
	}

	assert.InDelta(t, 25.0, PaymentCompliance(payments), 1e-9)
}

func TestAverageTenancyMonthsExcludesTenantsWithoutLease(t *testing.T) {
	tenants := []domain.TenantRecord{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	leases := []domain.LeaseRecord{
		{TenantID: "t1", StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 31)},
		{TenantID: "t1", StartDate: day(2020, 1, 1)},
		{TenantID: "t2", StartDate: now.AddDate(0, 0, -90)},
	}

	// t1 uses its first lease (1 month), t2 is open-ended (3 months), t3 is ignored
	assert.InDelta(t, 2.0, AverageTenancyMonths(tenants, leases, now), 1e-9)
}

func TestAverageCompletionHours(t *testing.T) {
	created := day(2024, 5, 1)
	requests := []domain.MaintenanceRecord{
		{Status: "completed", CreatedAt: created, CompletedAt: created.Add(10 * time.Hour)},
		{Status: "completed", CreatedAt: created, CompletedAt: created.Add(20 * time.Hour)},
		{Status: "completed", CreatedAt: created},
		{Status: "open", CreatedAt: created, CompletedAt: created.Add(100 * time.Hour)},
	}

	assert.InDelta(t, 15.0, AverageCompletionHours(requests), 1e-9)
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 100.0, GrowthRate(50, 0))
	assert.Equal(t, 0.0, GrowthRate(0, 0))
	assert.InDelta(t, 50.0, GrowthRate(150, 100), 1e-9)
	assert.InDelta(t, -25.0, GrowthRate(75, 100), 1e-9)
}

func TestCountByPriority(t *testing.T) {
	requests := []domain.MaintenanceRecord{
		{Priority: "high"}, {Priority: "high"}, {Priority: "low"}, {Priority: ""}, {Priority: "critical"},
	}

	assert.Equal(t, []domain.LabelCount{
		{Label: "urgent", Count: 0},
		{Label: "high", Count: 2},
		{Label: "medium", Count: 0},
		{Label: "low", Count: 1},
		{Label: "critical", Count: 1},
		{Label: Uncategorized, Count: 1},
	}, CountByPriority(requests))
}

func TestCountByCategory(t *testing.T) {
	requests := []domain.MaintenanceRecord{
		{Category: "plumbing"}, {Category: ""}, {Category: "plumbing"}, {Category: "electrical"}, {},
	}

	assert.Equal(t, []domain.LabelCount{
		{Label: "plumbing", Count: 2},
		{Label: Uncategorized, Count: 2},
		{Label: "electrical", Count: 1},
	}, CountByCategory(requests))
	assert.Empty(t, CountByCategory(nil))
}

func TestSummarizeMaintenance(t *testing.T) {
	s := SummarizeMaintenance([]domain.MaintenanceRecord{
		{Status: "completed", Cost: 100},
		{Status: "open", Cost: 50},
		{Status: "in_progress"},
	})

	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 2, s.OpenRequests)
	assert.Equal(t, 1, s.CompletedRequests)
	assert.Equal(t, 150.0, s.TotalCost)
	assert.InDelta(t, 50.0, s.AverageCost, 1e-9)
	require.Len(t, s.ByPriority, 5)
}

func TestSummarizeFinancial(t *testing.T) {
	s := SummarizeFinancial(domain.FinancialRecords{
		Revenue:   []domain.PaymentRecord{{Amount: 1000}, {Amount: 500}},
		Expenses:  []domain.MaintenanceRecord{{Cost: 200}},
		Pending:   []domain.PaymentRecord{{Amount: 500}},
		Completed: []domain.PaymentRecord{{Amount: 1000}, {Amount: 500}},
	})

	assert.Equal(t, 1500.0, s.TotalRevenue)
	assert.Equal(t, 200.0, s.TotalExpenses)
	assert.Equal(t, 1300.0, s.NetIncome)
	assert.Equal(t, 500.0, s.PendingAmount)
	assert.InDelta(t, 75.0, s.CollectionRate, 1e-9)
}

func TestSummarizeTenants(t *testing.T) {
	p := domain.Period{Start: day(2024, 5, 15), End: now}
	s := SummarizeTenants(domain.TenantRecords{
		Tenants: []domain.TenantRecord{
			{ID: "t1", Status: "active", MoveInDate: day(2024, 6, 1)},
			{ID: "t2", Status: "active", MoveInDate: day(2023, 1, 1)},
			{ID: "t3", Status: "inactive"},
		},
		Leases: []domain.LeaseRecord{
			{TenantID: "t3", Status: "terminated", StartDate: day(2023, 1, 1), EndDate: day(2024, 6, 1)},
			{TenantID: "t4", Status: "expired", StartDate: day(2022, 1, 1), EndDate: day(2023, 1, 1)},
		},
		Maintenance: []domain.MaintenanceRecord{{}, {}, {}},
	}, p, now)

	assert.Equal(t, 3, s.TotalTenants)
	assert.Equal(t, 2, s.ActiveTenants)
	assert.Equal(t, 1, s.NewTenants)
	assert.Equal(t, 1, s.LeavingTenants)
	assert.InDelta(t, 1.0, s.MaintenanceFrequency, 1e-9)
}
