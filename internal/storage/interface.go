package storage

import (
	"context"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// DateField names the timestamp column a query filters on
type DateField string

const (
	PaymentDate          DateField = "payment_date"
	DueDate              DateField = "due_date"
	MaintenanceCreated   DateField = "created_at"
	MaintenanceCompleted DateField = "completed_at"
)

// Valid reports whether f is one of the known timestamp columns.
func (f DateField) Valid() bool {
	switch f {
	case PaymentDate, DueDate, MaintenanceCreated, MaintenanceCompleted:
		return true
	}
	return false
}

// RecordQuery filters a time-ranged collection. Empty Status and
// PropertyID match everything.
type RecordQuery struct {
	Window     domain.Period
	DateField  DateField
	Status     string
	PropertyID string
}

// Table names of the record store
const (
	TablePayments    = "rent_payments"
	TableMaintenance = "maintenance_requests"
	TableProperties  = "properties"
	TableUnits       = "units"
	TableTenants     = "tenants"
	TableLeases      = "leases"
)

// RecordStore is the read-only boundary to the property management data.
// Implementations return a SOURCE_UNAVAILABLE error when a table or column
// does not exist and UPSTREAM_UNAVAILABLE for any other failure.
type RecordStore interface {
	ListPayments(ctx context.Context, q RecordQuery) ([]domain.PaymentRecord, error)
	ListMaintenanceRequests(ctx context.Context, q RecordQuery) ([]domain.MaintenanceRecord, error)

	// Snapshots, optionally narrowed to one property
	ListProperties(ctx context.Context, propertyID string) ([]domain.PropertyRecord, error)
	ListTenants(ctx context.Context, propertyID string) ([]domain.TenantRecord, error)
	ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseRecord, error)

	CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error)

	Close() error
}
