package export

import (
	"strconv"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// row is one Metric,Value pair. Exactly one of the value fields is used.
type row struct {
	Name  string
	Kind  valueKind
	Num   float64
	Count int
	Text  string
}

type valueKind int

const (
	kindMoney valueKind = iota
	kindPercent
	kindCount
	kindNumber
	kindText
)

func money(name string, v float64) row   { return row{Name: name, Kind: kindMoney, Num: v} }
func percent(name string, v float64) row { return row{Name: name, Kind: kindPercent, Num: v} }
func count(name string, v int) row       { return row{Name: name, Kind: kindCount, Count: v} }
func number(name string, v float64) row  { return row{Name: name, Kind: kindNumber, Num: v} }
func text(name, v string) row            { return row{Name: name, Kind: kindText, Text: v} }

// raw is the unformatted value used by machine readable exports
func (r row) raw() string {
	switch r.Kind {
	case kindCount:
		return strconv.Itoa(r.Count)
	case kindText:
		return r.Text
	default:
		return strconv.FormatFloat(r.Num, 'f', -1, 64)
	}
}

// summaryRows lists the summary fields in declaration order
func summaryRows(s domain.Summary) []row {
	return []row{
		money("totalRevenue", s.TotalRevenue),
		money("totalExpenses", s.TotalExpenses),
		money("netIncome", s.NetIncome),
		money("pendingAmount", s.PendingAmount),
		count("totalProperties", s.TotalProperties),
		count("totalUnits", s.TotalUnits),
		count("occupiedUnits", s.OccupiedUnits),
		percent("occupancyRate", s.OccupancyRate),
		money("averageRent", s.AverageRent),
		text("topProperty", s.TopProperty),
		count("totalTenants", s.TotalTenants),
		count("activeTenants", s.ActiveTenants),
		count("newTenants", s.NewTenants),
		count("leavingTenants", s.LeavingTenants),
		money("maintenanceCosts", s.MaintenanceCosts),
		count("totalRequests", s.TotalRequests),
		count("openRequests", s.OpenRequests),
		count("completedRequests", s.CompletedRequests),
	}
}

// metricRows lists the metric fields in declaration order
func metricRows(m domain.Metrics) []row {
	return []row{
		percent("paymentOnTimeRate", m.PaymentOnTimeRate),
		percent("collectionEfficiency", m.CollectionEfficiency),
		number("maintenanceResponseTime", m.MaintenanceResponseTime),
		money("averageMaintenanceCost", m.AverageMaintenanceCost),
		number("maintenanceFrequency", m.MaintenanceFrequency),
		number("averageTenancyMonths", m.AverageTenancyMonths),
		percent("revenueGrowth", m.RevenueGrowth),
	}
}

// comparisonRows lists the growth figures, or nothing without a comparison
func comparisonRows(c *domain.Comparison) []row {
	if c == nil {
		return nil
	}
	return []row{
		percent("revenueGrowth", c.RevenueGrowth),
		percent("expenseGrowth", c.ExpenseGrowth),
		percent("netIncomeGrowth", c.NetIncomeGrowth),
		percent("maintenanceGrowth", c.MaintenanceGrowth),
		percent("newTenantGrowth", c.NewTenantGrowth),
	}
}
