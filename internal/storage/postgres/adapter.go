package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/storage"
)

// SQLSTATE codes treated as a missing source
const (
	codeUndefinedTable  pq.ErrorCode = "42P01"
	codeUndefinedColumn pq.ErrorCode = "42703"
)

// postgresStorage implements the RecordStore interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage connects to the property management database. The
// schema is owned by the platform, so no migration runs here.
func NewPostgresStorage(connStr string) (storage.RecordStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewUpstreamUnavailableError("postgres", err)
	}

	return newStorage(db), nil
}

func newStorage(db *sql.DB) *postgresStorage {
	return &postgresStorage{db: db}
}

var dialect = storage.Dialect{
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// ListPayments returns rent payments matching q
func (s *postgresStorage) ListPayments(ctx context.Context, q storage.RecordQuery) ([]domain.PaymentRecord, error) {
	query, args, err := storage.BuildRecordQuery(storage.TablePayments, storage.PaymentColumns, q, dialect)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid payment query", err)
	}
	payments, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanPayment)
	return payments, classify(storage.TablePayments, err)
}

// ListMaintenanceRequests returns maintenance requests matching q
func (s *postgresStorage) ListMaintenanceRequests(ctx context.Context, q storage.RecordQuery) ([]domain.MaintenanceRecord, error) {
	query, args, err := storage.BuildRecordQuery(storage.TableMaintenance, storage.MaintenanceColumns, q, dialect)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid maintenance query", err)
	}
	requests, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanMaintenance)
	return requests, classify(storage.TableMaintenance, err)
}

// ListProperties returns all properties, or just propertyID when set
func (s *postgresStorage) ListProperties(ctx context.Context, propertyID string) ([]domain.PropertyRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableProperties, storage.PropertyColumns, "id", propertyID, dialect)
	properties, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanProperty)
	return properties, classify(storage.TableProperties, err)
}

// ListTenants returns tenants, optionally of one property
func (s *postgresStorage) ListTenants(ctx context.Context, propertyID string) ([]domain.TenantRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableTenants, storage.TenantColumns, "property_id", propertyID, dialect)
	tenants, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanTenant)
	return tenants, classify(storage.TableTenants, err)
}

// ListLeases returns leases, optionally of one property
func (s *postgresStorage) ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableLeases, storage.LeaseColumns, "property_id", propertyID, dialect)
	leases, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanLease)
	return leases, classify(storage.TableLeases, err)
}

// CountUnits counts the units of a property and how many are occupied
func (s *postgresStorage) CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error) {
	count := domain.UnitCount{PropertyID: propertyID}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM units WHERE property_id = $2
	`, domain.UnitStatusOccupied, propertyID).Scan(&count.Total, &count.Occupied)
	if err != nil {
		return count, classify(storage.TableUnits, err)
	}
	return count, nil
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}

// classify maps undefined table and column errors to SOURCE_UNAVAILABLE and
// any other failure to UPSTREAM_UNAVAILABLE.
func classify(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == codeUndefinedTable || pqErr.Code == codeUndefinedColumn) {
		return apperrors.NewSourceUnavailableError(table, err)
	}
	return apperrors.NewUpstreamUnavailableError(table, err)
}
