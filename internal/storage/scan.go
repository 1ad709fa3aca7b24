package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

// Column lists shared by the SQL adapters, in scan order
const (
	PaymentColumns     = "id, tenant_id, property_id, amount, status, payment_date, due_date"
	MaintenanceColumns = "id, property_id, tenant_id, status, priority, category, created_at, completed_at, actual_cost"
	PropertyColumns    = "id, name, total_units, occupied_units, monthly_rent"
	TenantColumns      = "id, property_id, status, move_in_date"
	LeaseColumns       = "id, tenant_id, property_id, start_date, end_date, status"
)

// Scanner is satisfied by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Placeholder renders the n-th (1-based) bind parameter of a dialect
type Placeholder func(n int) string

// Dialect renders the driver specific parts of a query
type Dialect struct {
	Placeholder Placeholder
	// Timestamp wraps a timestamp column or parameter so both sides compare
	// as instants. Nil compares the stored values directly.
	Timestamp func(expr string) string
}

func (d Dialect) timestamp(expr string) string {
	if d.Timestamp == nil {
		return expr
	}
	return d.Timestamp(expr)
}

// BuildRecordQuery renders a SELECT over table filtered by q.
func BuildRecordQuery(table, columns string, q RecordQuery, d Dialect) (string, []any, error) {
	if !q.DateField.Valid() {
		return "", nil, fmt.Errorf("unknown date field %q", q.DateField)
	}

	col := d.timestamp(string(q.DateField))
	args := []any{q.Window.Start.UTC(), q.Window.End.UTC()}
	conds := []string{
		fmt.Sprintf("%s >= %s", col, d.timestamp(d.Placeholder(1))),
		fmt.Sprintf("%s < %s", col, d.timestamp(d.Placeholder(2))),
	}
	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, "status = "+d.Placeholder(len(args)))
	}
	if q.PropertyID != "" {
		args = append(args, q.PropertyID)
		conds = append(conds, "property_id = "+d.Placeholder(len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s", columns, table, strings.Join(conds, " AND "), col)
	return query, args, nil
}

// BuildSnapshotQuery renders a SELECT over table, narrowed to propertyID
// when set. idColumn is the column holding the property id.
func BuildSnapshotQuery(table, columns, idColumn, propertyID string, d Dialect) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s", columns, table)
	if propertyID == "" {
		return query + " ORDER BY id", nil
	}
	return fmt.Sprintf("%s WHERE %s = %s ORDER BY id", query, idColumn, d.Placeholder(1)), []any{propertyID}
}

// QueryAll runs query and scans every row. Errors are returned unclassified.
func QueryAll[T any](ctx context.Context, db *sql.DB, query string, args []any, scan func(Scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ScanPayment reads a row selected with PaymentColumns
func ScanPayment(row Scanner) (domain.PaymentRecord, error) {
	var (
		p                    domain.PaymentRecord
		tenantID, propertyID sql.NullString
		status               sql.NullString
		amount               sql.NullFloat64
		paymentDate, dueDate sql.NullTime
	)
	if err := row.Scan(&p.ID, &tenantID, &propertyID, &amount, &status, &paymentDate, &dueDate); err != nil {
		return p, err
	}
	p.TenantID = tenantID.String
	p.PropertyID = propertyID.String
	p.Amount = amount.Float64
	p.Status = status.String
	p.PaymentDate = paymentDate.Time
	p.DueDate = dueDate.Time
	return p, nil
}

// ScanMaintenance reads a row selected with MaintenanceColumns
func ScanMaintenance(row Scanner) (domain.MaintenanceRecord, error) {
	var (
		m                          domain.MaintenanceRecord
		propertyID, tenantID       sql.NullString
		status, priority, category sql.NullString
		createdAt, completedAt     sql.NullTime
		cost                       sql.NullFloat64
	)
	if err := row.Scan(&m.ID, &propertyID, &tenantID, &status, &priority, &category, &createdAt, &completedAt, &cost); err != nil {
		return m, err
	}
	m.PropertyID = propertyID.String
	m.TenantID = tenantID.String
	m.Status = status.String
	m.Priority = priority.String
	m.Category = category.String
	m.CreatedAt = createdAt.Time
	m.CompletedAt = completedAt.Time
	m.Cost = cost.Float64
	return m, nil
}

// ScanProperty reads a row selected with PropertyColumns
func ScanProperty(row Scanner) (domain.PropertyRecord, error) {
	var (
		p                    domain.PropertyRecord
		name                 sql.NullString
		totalUnits, occupied sql.NullInt64
		rent                 sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &name, &totalUnits, &occupied, &rent); err != nil {
		return p, err
	}
	p.Name = name.String
	p.TotalUnits = int(totalUnits.Int64)
	p.OccupiedUnits = int(occupied.Int64)
	p.MonthlyRent = rent.Float64
	return p, nil
}

// ScanTenant reads a row selected with TenantColumns
func ScanTenant(row Scanner) (domain.TenantRecord, error) {
	var (
		t                  domain.TenantRecord
		propertyID, status sql.NullString
		moveIn             sql.NullTime
	)
	if err := row.Scan(&t.ID, &propertyID, &status, &moveIn); err != nil {
		return t, err
	}
	t.PropertyID = propertyID.String
	t.Status = status.String
	t.MoveInDate = moveIn.Time
	return t, nil
}

// ScanLease reads a row selected with LeaseColumns
func ScanLease(row Scanner) (domain.LeaseRecord, error) {
	var (
		l                            domain.LeaseRecord
		tenantID, propertyID, status sql.NullString
		start, end                   sql.NullTime
	)
	if err := row.Scan(&l.ID, &tenantID, &propertyID, &start, &end, &status); err != nil {
		return l, err
	}
	l.TenantID = tenantID.String
	l.PropertyID = propertyID.String
	l.StartDate = start.Time
	l.EndDate = end.Time
	l.Status = status.String
	return l, nil
}
