package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/storage"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListPayments(ctx context.Context, q storage.RecordQuery) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]domain.PaymentRecord)
	return records, args.Error(1)
}

func (m *mockStore) ListMaintenanceRequests(ctx context.Context, q storage.RecordQuery) ([]domain.MaintenanceRecord, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]domain.MaintenanceRecord)
	return records, args.Error(1)
}

func (m *mockStore) ListProperties(ctx context.Context, propertyID string) ([]domain.PropertyRecord, error) {
	args := m.Called(ctx, propertyID)
	records, _ := args.Get(0).([]domain.PropertyRecord)
	return records, args.Error(1)
}

func (m *mockStore) ListTenants(ctx context.Context, propertyID string) ([]domain.TenantRecord, error) {
	args := m.Called(ctx, propertyID)
	records, _ := args.Get(0).([]domain.TenantRecord)
	return records, args.Error(1)
}

func (m *mockStore) ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseRecord, error) {
	args := m.Called(ctx, propertyID)
	records, _ := args.Get(0).([]domain.LeaseRecord)
	return records, args.Error(1)
}

func (m *mockStore) CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(domain.UnitCount), args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

var window = domain.Period{
	Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func query(field storage.DateField, status string) storage.RecordQuery {
	return storage.RecordQuery{Window: window, DateField: field, Status: status, PropertyID: "p1"}
}

func TestCollectFinancialIssuesFourSubQueries(t *testing.T) {
	ctx := testContext(t)
	store := &mockStore{}

	paid := []domain.PaymentRecord{{ID: "pay-1", Amount: 1200, Status: "paid"}}
	pending := []domain.PaymentRecord{{ID: "pay-2", Amount: 300, Status: "pending"}}
	costs := []domain.MaintenanceRecord{{ID: "m-1", Cost: 80}}

	store.On("ListPayments", ctx, query(storage.PaymentDate, "paid")).Return(paid, nil).Twice()
	store.On("ListPayments", ctx, query(storage.DueDate, "pending")).Return(pending, nil).Once()
	store.On("ListMaintenanceRequests", ctx, query(storage.MaintenanceCompleted, "completed")).Return(costs, nil).Once()

	r, err := NewStoreSources(store).Financial.CollectFinancial(ctx, window, "p1")
	require.NoError(t, err)

	assert.Equal(t, paid, r.Revenue)
	assert.Equal(t, paid, r.Completed)
	assert.Equal(t, pending, r.Pending)
	assert.Equal(t, costs, r.Expenses)
	store.AssertExpectations(t)
}

func TestMissingTableDegradesToEmpty(t *testing.T) {
	ctx := testContext(t)
	store := &mockStore{}

	missing := apperrors.NewSourceUnavailableError(storage.TableMaintenance, errors.New("no such table"))
	tenants := []domain.TenantRecord{{ID: "t1", Status: "active"}}

	store.On("ListTenants", ctx, "p1").Return(tenants, nil)
	store.On("ListLeases", ctx, "p1").Return(nil, apperrors.NewSourceUnavailableError(storage.TableLeases, errors.New("no such table")))
	store.On("ListPayments", ctx, query(storage.PaymentDate, "")).Return([]domain.PaymentRecord{{ID: "pay-1"}}, nil)
	store.On("ListMaintenanceRequests", ctx, query(storage.MaintenanceCreated, "")).Return(nil, missing)

	r, err := NewStoreSources(store).Tenant.CollectTenants(ctx, window, "p1")
	require.NoError(t, err)

	assert.Equal(t, tenants, r.Tenants)
	assert.Empty(t, r.Leases)
	assert.Len(t, r.Payments, 1)
	assert.Empty(t, r.Maintenance)
}

func TestUpstreamFailureIsReturnedAfterSiblingsFinish(t *testing.T) {
	ctx := testContext(t)
	store := &mockStore{}

	upstream := apperrors.NewUpstreamUnavailableError(storage.TableProperties, errors.New("connection refused"))
	store.On("ListProperties", ctx, "p1").Return(nil, upstream)
	store.On("ListPayments", ctx, query(storage.PaymentDate, "paid")).Return([]domain.PaymentRecord{}, nil)

	_, err := NewStoreSources(store).Property.CollectProperties(ctx, window, "p1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamUnavailable(err))

	// sibling sub-query still ran
	store.AssertCalled(t, "ListPayments", ctx, query(storage.PaymentDate, "paid"))
}

func TestCollectMaintenance(t *testing.T) {
	ctx := testContext(t)
	store := &mockStore{}

	requests := []domain.MaintenanceRecord{{ID: "m-1", Status: "open"}, {ID: "m-2", Status: "completed"}}
	store.On("ListMaintenanceRequests", ctx, query(storage.MaintenanceCreated, "")).Return(requests, nil)

	r, err := NewStoreSources(store).Maintenance.CollectMaintenance(ctx, window, "p1")
	require.NoError(t, err)
	assert.Equal(t, requests, r.Requests)
}

func TestCountUnits(t *testing.T) {
	ctx := testContext(t)
	store := &mockStore{}

	store.On("CountUnits", ctx, "p1").Return(domain.UnitCount{PropertyID: "p1", Total: 3, Occupied: 2}, nil)
	store.On("CountUnits", ctx, "p2").Return(domain.UnitCount{}, apperrors.NewSourceUnavailableError(storage.TableUnits, errors.New("no such table")))
	store.On("CountUnits", ctx, "p3").Return(domain.UnitCount{}, apperrors.NewUpstreamUnavailableError(storage.TableUnits, errors.New("timeout")))

	sources := NewStoreSources(store)

	units, err := sources.Property.CountUnits(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, units.Total)

	units, err = sources.Property.CountUnits(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitCount{PropertyID: "p2"}, units)

	_, err = sources.Property.CountUnits(ctx, "p3")
	assert.True(t, apperrors.IsUpstreamUnavailable(err))
}
