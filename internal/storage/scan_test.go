package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

var window = domain.Period{
	Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
}

func TestBuildRecordQuery(t *testing.T) {
	numbered := Dialect{Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
	julian := Dialect{
		Placeholder: func(int) string { return "?" },
		Timestamp:   func(expr string) string { return "julianday(" + expr + ")" },
	}

	tests := []struct {
		name    string
		dialect Dialect
		q       RecordQuery
		want    string
		args    []any
	}{
		{
			name:    "stored values",
			dialect: numbered,
			q:       RecordQuery{Window: window, DateField: DueDate, Status: "pending"},
			want:    "SELECT id FROM rent_payments WHERE due_date >= $1 AND due_date < $2 AND status = $3 ORDER BY due_date",
			args:    []any{window.Start, window.End, "pending"},
		},
		{
			name:    "normalized timestamps",
			dialect: julian,
			q:       RecordQuery{Window: window, DateField: PaymentDate, PropertyID: "p1"},
			want: "SELECT id FROM rent_payments WHERE julianday(payment_date) >= julianday(?) " +
				"AND julianday(payment_date) < julianday(?) AND property_id = ? ORDER BY julianday(payment_date)",
			args: []any{window.Start, window.End, "p1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildRecordQuery(TablePayments, "id", tt.q, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildRecordQueryRejectsUnknownField(t *testing.T) {
	_, _, err := BuildRecordQuery(TablePayments, "id", RecordQuery{DateField: "amount"}, Dialect{Placeholder: func(int) string { return "?" }})
	assert.Error(t, err)
}
