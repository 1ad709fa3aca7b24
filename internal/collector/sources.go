package collector

import (
	"context"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/storage"
)

// CollectFinancial issues the four financial sub-queries concurrently
func (c *storeCollector) CollectFinancial(ctx context.Context, window domain.Period, propertyID string) (domain.FinancialRecords, error) {
	var r domain.FinancialRecords
	err := fanOut(
		into(ctx, storage.TablePayments, &r.Revenue, c.payments(ctx, storage.RecordQuery{
			Window: window, DateField: storage.PaymentDate, Status: domain.PaymentStatusPaid, PropertyID: propertyID,
		})),
		into(ctx, storage.TableMaintenance, &r.Expenses, c.maintenance(ctx, storage.RecordQuery{
			Window: window, DateField: storage.MaintenanceCompleted, Status: domain.MaintenanceStatusCompleted, PropertyID: propertyID,
		})),
		into(ctx, storage.TablePayments, &r.Pending, c.payments(ctx, storage.RecordQuery{
			Window: window, DateField: storage.DueDate, Status: domain.PaymentStatusPending, PropertyID: propertyID,
		})),
		into(ctx, storage.TablePayments, &r.Completed, c.payments(ctx, storage.RecordQuery{
			Window: window, DateField: storage.PaymentDate, Status: domain.PaymentStatusPaid, PropertyID: propertyID,
		})),
	)
	if err != nil {
		return domain.FinancialRecords{}, err
	}
	return r, nil
}

// CollectProperties fetches the property snapshot and its paid payments
func (c *storeCollector) CollectProperties(ctx context.Context, window domain.Period, propertyID string) (domain.PropertyRecords, error) {
	var r domain.PropertyRecords
	err := fanOut(
		into(ctx, storage.TableProperties, &r.Properties, func() ([]domain.PropertyRecord, error) {
			return c.store.ListProperties(ctx, propertyID)
		}),
		into(ctx, storage.TablePayments, &r.Payments, c.payments(ctx, storage.RecordQuery{
			Window: window, DateField: storage.PaymentDate, Status: domain.PaymentStatusPaid, PropertyID: propertyID,
		})),
	)
	if err != nil {
		return domain.PropertyRecords{}, err
	}
	return r, nil
}

// CountUnits returns the unit level counts of one property. A missing units
// table yields an empty count.
func (c *storeCollector) CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error) {
	units, err := c.store.CountUnits(ctx, propertyID)
	if apperrors.IsSourceUnavailable(err) {
		return domain.UnitCount{PropertyID: propertyID}, nil
	}
	return units, err
}

// CollectTenants fetches tenants, leases, payments and maintenance requests
func (c *storeCollector) CollectTenants(ctx context.Context, window domain.Period, propertyID string) (domain.TenantRecords, error) {
	var r domain.TenantRecords
	err := fanOut(
		into(ctx, storage.TableTenants, &r.Tenants, func() ([]domain.TenantRecord, error) {
			return c.store.ListTenants(ctx, propertyID)
		}),
		into(ctx, storage.TableLeases, &r.Leases, func() ([]domain.LeaseRecord, error) {
			return c.store.ListLeases(ctx, propertyID)
		}),
		into(ctx, storage.TablePayments, &r.Payments, c.payments(ctx, storage.RecordQuery{
			Window: window, DateField: storage.PaymentDate, PropertyID: propertyID,
		})),
		into(ctx, storage.TableMaintenance, &r.Maintenance, c.maintenance(ctx, storage.RecordQuery{
			Window: window, DateField: storage.MaintenanceCreated, PropertyID: propertyID,
		})),
	)
	if err != nil {
		return domain.TenantRecords{}, err
	}
	return r, nil
}

// CollectMaintenance fetches requests created in window regardless of status
func (c *storeCollector) CollectMaintenance(ctx context.Context, window domain.Period, propertyID string) (domain.MaintenanceRecords, error) {
	var r domain.MaintenanceRecords
	err := fanOut(
		into(ctx, storage.TableMaintenance, &r.Requests, c.maintenance(ctx, storage.RecordQuery{
			Window: window, DateField: storage.MaintenanceCreated, PropertyID: propertyID,
		})),
	)
	if err != nil {
		return domain.MaintenanceRecords{}, err
	}
	return r, nil
}
