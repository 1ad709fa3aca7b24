package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

func renderCSV(result *domain.AnalyticsResult, opts Options, created time.Time) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	first := true
	section := func(title string, header []string, records [][]string) {
		if !first {
			_ = w.Write(nil)
		}
		first = false
		_ = w.Write([]string{title})
		_ = w.Write(header)
		for _, r := range records {
			_ = w.Write(r)
		}
	}
	pairs := func(rows []row) [][]string {
		out := make([][]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, []string{r.Name, r.raw()})
		}
		return out
	}

	section("SUMMARY", []string{"Metric", "Value"}, pairs(summaryRows(result.Summary)))
	section("METRICS", []string{"Metric", "Value"}, pairs(metricRows(result.Metrics)))
	if rows := comparisonRows(result.Comparison); rows != nil {
		section("COMPARISON", []string{"Metric", "Value"}, pairs(rows))
	}

	bd := result.Breakdown
	section("REVENUE BY PROPERTY", []string{"Property", "Amount"}, mapRows(bd.RevenueByProperty, func(p domain.PropertyAmount) []string {
		return []string{p.Property, formatFloat(p.Amount)}
	}))
	section("OCCUPANCY BY PROPERTY", []string{"Property", "Rate"}, mapRows(bd.OccupancyByProperty, func(p domain.PropertyRate) []string {
		return []string{p.Property, formatFloat(p.Rate)}
	}))
	section("TENANTS BY PROPERTY", []string{"Property", "Count"}, mapRows(bd.TenantsByProperty, func(p domain.PropertyCount) []string {
		return []string{p.Property, strconv.Itoa(p.Count)}
	}))
	section("TOP PROPERTIES", []string{"Property", "Revenue", "Units", "Occupied Units", "Occupancy Rate"}, mapRows(bd.TopProperties, func(p domain.PropertyPerformance) []string {
		return []string{p.Name, formatFloat(p.TotalRevenue), strconv.Itoa(p.TotalUnits), strconv.Itoa(p.OccupiedUnits), formatFloat(p.OccupancyRate)}
	}))
	section("MAINTENANCE BY CATEGORY", []string{"Category", "Count"}, mapRows(bd.MaintenanceByCategory, labelCount))
	section("MAINTENANCE BY PRIORITY", []string{"Priority", "Count"}, mapRows(bd.MaintenanceByPriority, labelCount))

	section("TRENDS", []string{"Month", "Revenue", "Occupancy", "Maintenance"}, trendRows(result.Trends))

	_ = w.Write(nil)
	_ = w.Write([]string{"Timeframe", opts.Timeframe})
	_ = w.Write([]string{"Generated", created.UTC().Format(time.RFC3339)})
	w.Flush()

	return b.String(), w.Error()
}

func mapRows[T any](items []T, fn func(T) []string) [][]string {
	out := make([][]string, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

func labelCount(l domain.LabelCount) []string {
	return []string{l.Label, strconv.Itoa(l.Count)}
}

// trendRows zips the three series by bucket
func trendRows(t domain.Trends) [][]string {
	out := make([][]string, 0, len(t.Revenue))
	for i, p := range t.Revenue {
		r := []string{p.Label, formatFloat(p.Value), "0", "0"}
		if i < len(t.Occupancy) {
			r[2] = formatFloat(t.Occupancy[i].Value)
		}
		if i < len(t.Maintenance) {
			r[3] = formatFloat(t.Maintenance[i].Value)
		}
		out = append(out, r)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
