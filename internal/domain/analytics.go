package domain

import "time"

// AnalyticsResult is the assembled output of one analytics computation
type AnalyticsResult struct {
	Period     Period      `json:"period"`
	Timeframe  PeriodKind  `json:"timeframe"`
	PropertyID string      `json:"propertyId,omitempty"`
	Summary    Summary     `json:"summary"`
	Trends     Trends      `json:"trends"`
	Breakdown  Breakdown   `json:"breakdown"`
	Metrics    Metrics     `json:"metrics"`
	Comparison *Comparison `json:"comparison,omitempty"`
}

// Summary holds single-period scalars
type Summary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetIncome         float64 `json:"netIncome"`
	PendingAmount     float64 `json:"pendingAmount"`
	TotalProperties   int     `json:"totalProperties"`
	TotalUnits        int     `json:"totalUnits"`
	OccupiedUnits     int     `json:"occupiedUnits"`
	OccupancyRate     float64 `json:"occupancyRate"`
	AverageRent       float64 `json:"averageRent"`
	TopProperty       string  `json:"topProperty"`
	TotalTenants      int     `json:"totalTenants"`
	ActiveTenants     int     `json:"activeTenants"`
	NewTenants        int     `json:"newTenants"`
	LeavingTenants    int     `json:"leavingTenants"`
	MaintenanceCosts  float64 `json:"maintenanceCosts"`
	TotalRequests     int     `json:"totalRequests"`
	OpenRequests      int     `json:"openRequests"`
	CompletedRequests int     `json:"completedRequests"`
}

// Metrics holds derived ratios. Rates are percentages in [0, 100].
type Metrics struct {
	PaymentOnTimeRate       float64 `json:"paymentOnTimeRate"`
	CollectionEfficiency    float64 `json:"collectionEfficiency"`
	MaintenanceResponseTime float64 `json:"maintenanceResponseTime"` // hours
	AverageMaintenanceCost  float64 `json:"averageMaintenanceCost"`
	MaintenanceFrequency    float64 `json:"maintenanceFrequency"`
	AverageTenancyMonths    float64 `json:"averageTenancyMonths"`
	RevenueGrowth           float64 `json:"revenueGrowth"` // last trend bucket vs the one before
}

// TrendPoint is one bucketed value of a trend series
type TrendPoint struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
}

// Trends holds the bucketed series, oldest first
type Trends struct {
	Revenue     []TrendPoint `json:"revenue"`
	Occupancy   []TrendPoint `json:"occupancy"`
	Maintenance []TrendPoint `json:"maintenance"`
}

// PropertyAmount pairs a property name with a money amount
type PropertyAmount struct {
	Property string  `json:"property"`
	Amount   float64 `json:"amount"`
}

// PropertyRate pairs a property name with a percentage
type PropertyRate struct {
	Property string  `json:"property"`
	Rate     float64 `json:"rate"`
}

// PropertyCount pairs a property name with a count
type PropertyCount struct {
	Property string `json:"property"`
	Count    int    `json:"count"`
}

// LabelCount is one entry of a category or priority histogram
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PropertyPerformance is the per-property reduction used by breakdowns
type PropertyPerformance struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	TotalUnits            int     `json:"totalUnits"`
	OccupiedUnits         int     `json:"occupiedUnits"`
	OccupancyRate         float64 `json:"occupancyRate"`
	MonthlyRent           float64 `json:"monthlyRent"`
	TotalRevenue          float64 `json:"totalRevenue"`
	AverageRevenuePerUnit float64 `json:"averageRevenuePerUnit"`
}

// Breakdown holds per-property and per-label arrays
type Breakdown struct {
	RevenueByProperty     []PropertyAmount      `json:"revenueByProperty"`
	OccupancyByProperty   []PropertyRate        `json:"occupancyByProperty"`
	TenantsByProperty     []PropertyCount       `json:"tenantsByProperty"`
	TopProperties         []PropertyPerformance `json:"topProperties"`
	MaintenanceByCategory []LabelCount          `json:"maintenanceByCategory"`
	MaintenanceByPriority []LabelCount          `json:"maintenanceByPriority"`
}

// Comparison reports growth against the equal-length window before Period
type Comparison struct {
	PreviousPeriod    Period  `json:"previousPeriod"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
	ExpenseGrowth     float64 `json:"expenseGrowth"`
	NetIncomeGrowth   float64 `json:"netIncomeGrowth"`
	MaintenanceGrowth float64 `json:"maintenanceGrowth"`
	NewTenantGrowth   float64 `json:"newTenantGrowth"`
}
