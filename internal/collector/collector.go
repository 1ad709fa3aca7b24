// Package collector holds the metric sources: read-only fetchers that pull
// normalized records for one window out of a storage.RecordStore.
package collector

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/storage"
)

// FinancialSource collects payments and maintenance costs
type FinancialSource interface {
	CollectFinancial(ctx context.Context, window domain.Period, propertyID string) (domain.FinancialRecords, error)
}

// PropertySource collects properties with their paid payments
type PropertySource interface {
	CollectProperties(ctx context.Context, window domain.Period, propertyID string) (domain.PropertyRecords, error)

	// CountUnits is the unit level lookup used to enrich top properties
	CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error)
}

// TenantSource collects tenants, leases and their activity
type TenantSource interface {
	CollectTenants(ctx context.Context, window domain.Period, propertyID string) (domain.TenantRecords, error)
}

// MaintenanceSource collects maintenance requests by creation date
type MaintenanceSource interface {
	CollectMaintenance(ctx context.Context, window domain.Period, propertyID string) (domain.MaintenanceRecords, error)
}

// Sources is the capability set the analytics engine fans out over
type Sources struct {
	Financial   FinancialSource
	Property    PropertySource
	Tenant      TenantSource
	Maintenance MaintenanceSource
}

// storeCollector implements every source on top of one RecordStore
type storeCollector struct {
	store storage.RecordStore
}

// NewStoreSources returns sources backed by store
func NewStoreSources(store storage.RecordStore) Sources {
	c := &storeCollector{store: store}
	return Sources{
		Financial:   c,
		Property:    c,
		Tenant:      c,
		Maintenance: c,
	}
}

// fanOut runs every sub-query concurrently and waits for all of them. The
// first error is returned after the others have finished.
func fanOut(queries ...func() error) error {
	var g errgroup.Group
	for _, q := range queries {
		g.Go(q)
	}
	return g.Wait()
}

// into wraps a fetch so its records land in dst. A missing table leaves dst
// empty and is logged instead of failing.
func into[T any](ctx context.Context, table string, dst *[]T, fetch func() ([]T, error)) func() error {
	return func() error {
		records, err := fetch()
		if apperrors.IsSourceUnavailable(err) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("table", table).Msg("source unavailable, using empty result")
			return nil
		}
		if err != nil {
			return err
		}
		*dst = records
		return nil
	}
}

func (c *storeCollector) payments(ctx context.Context, q storage.RecordQuery) func() ([]domain.PaymentRecord, error) {
	return func() ([]domain.PaymentRecord, error) { return c.store.ListPayments(ctx, q) }
}

func (c *storeCollector) maintenance(ctx context.Context, q storage.RecordQuery) func() ([]domain.MaintenanceRecord, error) {
	return func() ([]domain.MaintenanceRecord, error) { return c.store.ListMaintenanceRequests(ctx, q) }
}
