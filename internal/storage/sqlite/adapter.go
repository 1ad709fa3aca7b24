package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/storage"
)

// sqliteStorage implements the RecordStore interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database at dbPath and ensures the schema exists
func NewSQLiteStorage(dbPath string) (storage.RecordStore, error) {
	s, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(context.Background()); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

func open(dbPath string) (*sqliteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	return &sqliteStorage{db: db}, nil
}

// Timestamps are compared through julianday so rows written in any SQLite
// time layout or UTC offset order as instants.
var dialect = storage.Dialect{
	Placeholder: func(int) string { return "?" },
	Timestamp:   func(expr string) string { return "julianday(" + expr + ")" },
}

// Migrate creates the property management tables if they are missing
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		total_units INTEGER,
		occupied_units INTEGER,
		monthly_rent REAL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		unit_number TEXT,
		status TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_units_property ON units(property_id);

	CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		property_id TEXT,
		status TEXT,
		move_in_date TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tenants_property ON tenants(property_id);

	CREATE TABLE IF NOT EXISTS leases (
		id TEXT PRIMARY KEY,
		tenant_id TEXT,
		property_id TEXT,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		status TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_leases_tenant ON leases(tenant_id);

	CREATE TABLE IF NOT EXISTS rent_payments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT,
		property_id TEXT,
		amount REAL,
		status TEXT,
		payment_date TIMESTAMP,
		due_date TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_rent_payments_payment_date ON rent_payments(payment_date);
	CREATE INDEX IF NOT EXISTS idx_rent_payments_due_date ON rent_payments(due_date);

	CREATE TABLE IF NOT EXISTS maintenance_requests (
		id TEXT PRIMARY KEY,
		property_id TEXT,
		tenant_id TEXT,
		status TEXT,
		priority TEXT,
		category TEXT,
		created_at TIMESTAMP,
		completed_at TIMESTAMP,
		actual_cost REAL
	);

	CREATE INDEX IF NOT EXISTS idx_maintenance_created_at ON maintenance_requests(created_at);
	CREATE INDEX IF NOT EXISTS idx_maintenance_completed_at ON maintenance_requests(completed_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ListPayments returns rent payments matching q
func (s *sqliteStorage) ListPayments(ctx context.Context, q storage.RecordQuery) ([]domain.PaymentRecord, error) {
	query, args, err := storage.BuildRecordQuery(storage.TablePayments, storage.PaymentColumns, q, dialect)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid payment query", err)
	}
	payments, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanPayment)
	return payments, classify(storage.TablePayments, err)
}

// ListMaintenanceRequests returns maintenance requests matching q
func (s *sqliteStorage) ListMaintenanceRequests(ctx context.Context, q storage.RecordQuery) ([]domain.MaintenanceRecord, error) {
	query, args, err := storage.BuildRecordQuery(storage.TableMaintenance, storage.MaintenanceColumns, q, dialect)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid maintenance query", err)
	}
	requests, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanMaintenance)
	return requests, classify(storage.TableMaintenance, err)
}

// ListProperties returns all properties, or just propertyID when set
func (s *sqliteStorage) ListProperties(ctx context.Context, propertyID string) ([]domain.PropertyRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableProperties, storage.PropertyColumns, "id", propertyID, dialect)
	properties, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanProperty)
	return properties, classify(storage.TableProperties, err)
}

// ListTenants returns tenants, optionally of one property
func (s *sqliteStorage) ListTenants(ctx context.Context, propertyID string) ([]domain.TenantRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableTenants, storage.TenantColumns, "property_id", propertyID, dialect)
	tenants, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanTenant)
	return tenants, classify(storage.TableTenants, err)
}

// ListLeases returns leases, optionally of one property
func (s *sqliteStorage) ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseRecord, error) {
	query, args := storage.BuildSnapshotQuery(storage.TableLeases, storage.LeaseColumns, "property_id", propertyID, dialect)
	leases, err := storage.QueryAll(ctx, s.db, query, args, storage.ScanLease)
	return leases, classify(storage.TableLeases, err)
}

// CountUnits counts the units of a property and how many are occupied
func (s *sqliteStorage) CountUnits(ctx context.Context, propertyID string) (domain.UnitCount, error) {
	count := domain.UnitCount{PropertyID: propertyID}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM units WHERE property_id = ?
	`, domain.UnitStatusOccupied, propertyID).Scan(&count.Total, &count.Occupied)
	if err != nil {
		return count, classify(storage.TableUnits, err)
	}
	return count, nil
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// classify maps missing tables and columns to SOURCE_UNAVAILABLE and any
// other driver error to UPSTREAM_UNAVAILABLE.
func classify(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrError {
		msg := sqliteErr.Error()
		if strings.Contains(msg, "no such table") || strings.Contains(msg, "no such column") {
			return apperrors.NewSourceUnavailableError(table, err)
		}
	}
	return apperrors.NewUpstreamUnavailableError(table, err)
}
