package export

import (
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kurihiro0119/property-analytics/internal/domain"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   formatMoney,
	"percent": formatPercent,
	"count":   formatCount,
	"number":  formatNumber,
	"value":   formatRow,
}).Parse(reportHTML))

type htmlReport struct {
	Title       string
	Timeframe   string
	GeneratedAt string
	Period      domain.Period
	PropertyID  string
	Summary     []row
	Metrics     []row
	Comparison  []row
	Trends      [][]string
	Breakdown   domain.Breakdown
}

func renderHTML(result *domain.AnalyticsResult, opts Options, created time.Time) (string, error) {
	var b strings.Builder
	err := reportTemplate.Execute(&b, htmlReport{
		Title:       Title(opts.ReportType, opts.Timeframe),
		Timeframe:   opts.Timeframe,
		GeneratedAt: created.UTC().Format("January 2, 2006 15:04 MST"),
		Period:      result.Period,
		PropertyID:  result.PropertyID,
		Summary:     summaryRows(result.Summary),
		Metrics:     metricRows(result.Metrics),
		Comparison:  comparisonRows(result.Comparison),
		Trends:      htmlTrendRows(result.Trends),
		Breakdown:   result.Breakdown,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Title builds "<Report Type> Report - <Timeframe>". The analytics report
// is titled "Analytics Dashboard Report".
func Title(reportType, timeframe string) string {
	caser := cases.Title(language.English)
	base := caser.String(strings.ReplaceAll(reportType, "_", " ")) + " Report"
	if reportType == DefaultReportType || reportType == "" {
		base = "Analytics Dashboard Report"
	}
	if timeframe == "" {
		return base
	}
	return base + " - " + caser.String(timeframe)
}

// htmlTrendRows zips the three series with display formatting
func htmlTrendRows(t domain.Trends) [][]string {
	out := make([][]string, 0, len(t.Revenue))
	for i, p := range t.Revenue {
		r := []string{p.Label, formatMoney(p.Value), formatPercent(0), "0"}
		if i < len(t.Occupancy) {
			r[2] = formatPercent(t.Occupancy[i].Value)
		}
		if i < len(t.Maintenance) {
			r[3] = printer().Sprintf("%.0f", t.Maintenance[i].Value)
		}
		out = append(out, r)
	}
	return out
}

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

func formatMoney(v float64) string {
	return printer().Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return printer().Sprintf("%.1f%%", v)
}

func formatCount(v int) string {
	return printer().Sprintf("%d", v)
}

func formatNumber(v float64) string {
	return printer().Sprintf("%.2f", v)
}

func formatRow(r row) string {
	switch r.Kind {
	case kindMoney:
		return formatMoney(r.Num)
	case kindPercent:
		return formatPercent(r.Num)
	case kindCount:
		return formatCount(r.Count)
	case kindText:
		return r.Text
	default:
		return formatNumber(r.Num)
	}
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1f2937; }
  .header { text-align: center; border-bottom: 2px solid #e5e7eb; padding-bottom: 16px; margin-bottom: 24px; }
  .header h1 { margin: 0 0 8px; font-size: 24px; }
  .header p { margin: 0; color: #6b7280; font-size: 13px; }
  h2 { font-size: 16px; border-bottom: 1px solid #e5e7eb; padding-bottom: 4px; margin-top: 28px; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; font-size: 13px; }
  th, td { border: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; }
  th { background: #f3f4f6; }
  td.num { text-align: right; }
  .footer { margin-top: 32px; text-align: center; color: #9ca3af; font-size: 11px; }
  @media print { body { margin: 0; } h2 { page-break-after: avoid; } table { page-break-inside: avoid; } }
</style>
</head>
<body>
<div class="header">
  <h1>{{.Title}}</h1>
  <p>Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}}{{if .PropertyID}} &middot; Property: {{.PropertyID}}{{end}}</p>
  <p>Generated on {{.GeneratedAt}}</p>
</div>

<h2>Summary</h2>
<table>
  <tr><th>Metric</th><th>Value</th></tr>
  {{- range .Summary}}
  <tr><td>{{.Name}}</td><td class="num">{{value .}}</td></tr>
  {{- end}}
</table>

<h2>Key Metrics</h2>
<table>
  <tr><th>Metric</th><th>Value</th></tr>
  {{- range .Metrics}}
  <tr><td>{{.Name}}</td><td class="num">{{value .}}</td></tr>
  {{- end}}
</table>
{{- if .Comparison}}

<h2>Comparison With Previous Period</h2>
<table>
  <tr><th>Metric</th><th>Change</th></tr>
  {{- range .Comparison}}
  <tr><td>{{.Name}}</td><td class="num">{{value .}}</td></tr>
  {{- end}}
</table>
{{- end}}

<h2>Revenue by Property</h2>
<table>
  <tr><th>Property</th><th>Revenue</th></tr>
  {{- range .Breakdown.RevenueByProperty}}
  <tr><td>{{.Property}}</td><td class="num">{{money .Amount}}</td></tr>
  {{- end}}
</table>

<h2>Occupancy by Property</h2>
<table>
  <tr><th>Property</th><th>Occupancy</th></tr>
  {{- range .Breakdown.OccupancyByProperty}}
  <tr><td>{{.Property}}</td><td class="num">{{percent .Rate}}</td></tr>
  {{- end}}
</table>

<h2>Tenants by Property</h2>
<table>
  <tr><th>Property</th><th>Active Tenants</th></tr>
  {{- range .Breakdown.TenantsByProperty}}
  <tr><td>{{.Property}}</td><td class="num">{{count .Count}}</td></tr>
  {{- end}}
</table>

<h2>Top Properties</h2>
<table>
  <tr><th>Property</th><th>Revenue</th><th>Units</th><th>Occupied</th><th>Occupancy</th></tr>
  {{- range .Breakdown.TopProperties}}
  <tr><td>{{.Name}}</td><td class="num">{{money .TotalRevenue}}</td><td class="num">{{count .TotalUnits}}</td><td class="num">{{count .OccupiedUnits}}</td><td class="num">{{percent .OccupancyRate}}</td></tr>
  {{- end}}
</table>

<h2>Maintenance by Category</h2>
<table>
  <tr><th>Category</th><th>Requests</th></tr>
  {{- range .Breakdown.MaintenanceByCategory}}
  <tr><td>{{.Label}}</td><td class="num">{{count .Count}}</td></tr>
  {{- end}}
</table>

<h2>Maintenance by Priority</h2>
<table>
  <tr><th>Priority</th><th>Requests</th></tr>
  {{- range .Breakdown.MaintenanceByPriority}}
  <tr><td>{{.Label}}</td><td class="num">{{count .Count}}</td></tr>
  {{- end}}
</table>

<h2>Trends</h2>
<table>
  <tr><th>Month</th><th>Revenue</th><th>Occupancy</th><th>Maintenance Requests</th></tr>
  {{- range .Trends}}
  <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{- end}}
</table>

<div class="footer">
  <p>Property Management System Report &middot; {{.Timeframe}}</p>
</div>
</body>
</html>
`
