package domain

import "time"

// Record statuses read from the store
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"

	MaintenanceStatusCompleted = "completed"

	TenantStatusActive = "active"

	LeaseStatusExpired    = "expired"
	LeaseStatusTerminated = "terminated"

	UnitStatusOccupied = "occupied"
)

// PaymentRecord is a normalized rent payment. Zero times mean the source
// had no value.
type PaymentRecord struct {
	ID          string
	TenantID    string
	PropertyID  string
	Amount      float64
	Status      string
	PaymentDate time.Time
	DueDate     time.Time
}

// MaintenanceRecord is a normalized maintenance request
type MaintenanceRecord struct {
	ID          string
	PropertyID  string
	TenantID    string
	Status      string
	Priority    string
	Category    string
	CreatedAt   time.Time
	CompletedAt time.Time
	Cost        float64
}

// PropertyRecord is a normalized property snapshot
type PropertyRecord struct {
	ID            string
	Name          string
	TotalUnits    int
	OccupiedUnits int
	MonthlyRent   float64
}

// TenantRecord is a normalized tenant snapshot
type TenantRecord struct {
	ID         string
	PropertyID string
	Status     string
	MoveInDate time.Time
}

// LeaseRecord is a normalized lease
type LeaseRecord struct {
	ID         string
	TenantID   string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
}

// UnitCount is the unit level occupancy of one property
type UnitCount struct {
	PropertyID string
	Total      int
	Occupied   int
}

// FinancialRecords is the output of the financial source
type FinancialRecords struct {
	Revenue   []PaymentRecord     // paid, by payment date
	Expenses  []MaintenanceRecord // completed, by completion date
	Pending   []PaymentRecord     // pending, by due date
	Completed []PaymentRecord     // paid, by payment date
}

// PropertyRecords is the output of the property source
type PropertyRecords struct {
	Properties []PropertyRecord
	Payments   []PaymentRecord // paid, by payment date
}

// TenantRecords is the output of the tenant source
type TenantRecords struct {
	Tenants     []TenantRecord
	Leases      []LeaseRecord
	Payments    []PaymentRecord     // any status, by payment date
	Maintenance []MaintenanceRecord // by creation date
}

// MaintenanceRecords is the output of the maintenance source
type MaintenanceRecords struct {
	Requests []MaintenanceRecord // by creation date
}
