package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/property-analytics/internal/analytics"
	"github.com/kurihiro0119/property-analytics/internal/collector"
	"github.com/kurihiro0119/property-analytics/internal/config"
	"github.com/kurihiro0119/property-analytics/internal/domain"
	"github.com/kurihiro0119/property-analytics/internal/export"
	"github.com/kurihiro0119/property-analytics/internal/storage"
	"github.com/kurihiro0119/property-analytics/internal/storage/postgres"
	"github.com/kurihiro0119/property-analytics/internal/storage/sqlite"
)

var (
	cfgFile      string
	outputJSON   bool
	periodKind   string
	startDate    string
	endDate      string
	propertyID   string
	compare      bool
	exportFormat string
	exportOut    string
	reportType   string
)

var rootCmd = &cobra.Command{
	Use:   "property-analytics",
	Short: "Property management analytics tool",
	Long: `A CLI tool for computing and exporting property management analytics.

This tool reads payments, maintenance requests, properties, tenants and leases
from the record store and reports revenue, occupancy, tenant and maintenance
metrics for a period.`,
	SilenceUsage: true,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show summary and key metrics",
	Long:  `Display the summary figures and derived metrics for a period.`,
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show monthly trends",
	Long:  `Display the monthly revenue, occupancy and maintenance trends.`,
	Args:  cobra.NoArgs,
	RunE:  runTrends,
}

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Show per-property breakdown",
	Long:  `Display revenue, occupancy and tenants per property and the top properties by revenue.`,
	Args:  cobra.NoArgs,
	RunE:  runProperties,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an analytics report",
	Long:  `Generate an analytics report as CSV, JSON or HTML and write it to a file or stdout.`,
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&periodKind, "period", "monthly", "period (daily, weekly, monthly, quarterly, yearly, custom)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "start date for custom periods (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "end date for custom periods (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&propertyID, "property", "", "limit analytics to one property id")
	rootCmd.PersistentFlags().BoolVar(&compare, "compare", false, "compare with the previous period")

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "report format (csv, json, html, pdf)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default is stdout)")
	exportCmd.Flags().StringVar(&reportType, "report-type", export.DefaultReportType, "report type used in the title and filename")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.RecordStore, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func getFilter() (domain.PeriodFilter, error) {
	kind, ok := domain.ParsePeriodKind(periodKind)
	if !ok {
		return domain.PeriodFilter{}, fmt.Errorf("unknown period: %s", periodKind)
	}
	filter := domain.PeriodFilter{
		Kind:                kind,
		PropertyID:          propertyID,
		CompareWithPrevious: compare,
	}

	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.Start = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			filter.End = &t
		}
	}
	return filter, nil
}

// compute loads config, opens the store and runs one analytics computation
func compute() (*analytics.Engine, *domain.AnalyticsResult, error) {
	if cfgFile != "" {
		if err := godotenv.Load(cfgFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	filter, err := getFilter()
	if err != nil {
		return nil, nil, err
	}

	store, err := getStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	engine := analytics.New(collector.NewStoreSources(store), analytics.Options{
		TrendBuckets: cfg.TrendMonths,
		TopN:         cfg.TopProperties,
	}, nil)

	result, err := engine.ComputeAnalytics(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute analytics: %w", err)
	}
	return engine, result, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHeader(result *domain.AnalyticsResult, title string) {
	fmt.Printf("\n%s (%s)\n", title, result.Timeframe)
	fmt.Printf("Period: %s to %s\n", result.Period.Start.Format("2006-01-02"), result.Period.End.Format("2006-01-02"))
	if result.PropertyID != "" {
		fmt.Printf("Property: %s\n", result.PropertyID)
	}
	fmt.Println()
}

func money(v float64) string   { return fmt.Sprintf("%.2f", v) }
func percent(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func runShow(cmd *cobra.Command, args []string) error {
	_, result, err := compute()
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(struct {
			Summary    domain.Summary     `json:"summary"`
			Metrics    domain.Metrics     `json:"metrics"`
			Comparison *domain.Comparison `json:"comparison,omitempty"`
		}{result.Summary, result.Metrics, result.Comparison})
	}

	printHeader(result, "Analytics Summary")

	s := result.Summary
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total Revenue", money(s.TotalRevenue)})
	table.Append([]string{"Total Expenses", money(s.TotalExpenses)})
	table.Append([]string{"Net Income", money(s.NetIncome)})
	table.Append([]string{"Pending Amount", money(s.PendingAmount)})
	table.Append([]string{"Properties", fmt.Sprintf("%d", s.TotalProperties)})
	table.Append([]string{"Units (occupied/total)", fmt.Sprintf("%d/%d", s.OccupiedUnits, s.TotalUnits)})
	table.Append([]string{"Occupancy Rate", percent(s.OccupancyRate)})
	table.Append([]string{"Average Rent", money(s.AverageRent)})
	table.Append([]string{"Top Property", s.TopProperty})
	table.Append([]string{"Tenants (active/total)", fmt.Sprintf("%d/%d", s.ActiveTenants, s.TotalTenants)})
	table.Append([]string{"New Tenants", fmt.Sprintf("%d", s.NewTenants)})
	table.Append([]string{"Leaving Tenants", fmt.Sprintf("%d", s.LeavingTenants)})
	table.Append([]string{"Maintenance Requests (open/total)", fmt.Sprintf("%d/%d", s.OpenRequests, s.TotalRequests)})
	table.Append([]string{"Maintenance Costs", money(s.MaintenanceCosts)})
	table.Render()

	m := result.Metrics
	fmt.Println()
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key Metric", "Value"})
	table.Append([]string{"Payment On-Time Rate", percent(m.PaymentOnTimeRate)})
	table.Append([]string{"Collection Efficiency", percent(m.CollectionEfficiency)})
	table.Append([]string{"Maintenance Response Time (h)", fmt.Sprintf("%.1f", m.MaintenanceResponseTime)})
	table.Append([]string{"Average Maintenance Cost", money(m.AverageMaintenanceCost)})
	table.Append([]string{"Maintenance Frequency", fmt.Sprintf("%.2f", m.MaintenanceFrequency)})
	table.Append([]string{"Average Tenancy (months)", fmt.Sprintf("%.1f", m.AverageTenancyMonths)})
	table.Append([]string{"Revenue Growth (MoM)", percent(m.RevenueGrowth)})
	table.Render()

	if c := result.Comparison; c != nil {
		fmt.Printf("\nCompared with %s to %s\n", c.PreviousPeriod.Start.Format("2006-01-02"), c.PreviousPeriod.End.Format("2006-01-02"))
		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Growth", "Change"})
		table.Append([]string{"Revenue", percent(c.RevenueGrowth)})
		table.Append([]string{"Expenses", percent(c.ExpenseGrowth)})
		table.Append([]string{"Net Income", percent(c.NetIncomeGrowth)})
		table.Append([]string{"Maintenance Requests", percent(c.MaintenanceGrowth)})
		table.Append([]string{"New Tenants", percent(c.NewTenantGrowth)})
		table.Render()
	}

	return nil
}

func runTrends(cmd *cobra.Command, args []string) error {
	_, result, err := compute()
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSON(result.Trends)
	}

	printHeader(result, "Monthly Trends")

	t := result.Trends
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Month", "Revenue", "Occupancy", "Maintenance Requests"})
	for i, p := range t.Revenue {
		occupancy, requests := 0.0, 0.0
		if i < len(t.Occupancy) {
			occupancy = t.Occupancy[i].Value
		}
		if i < len(t.Maintenance) {
			requests = t.Maintenance[i].Value
		}
		table.Append([]string{
			p.Start.Format("Jan 2006"),
			money(p.Value),
			percent(occupancy),
			fmt.Sprintf("%.0f", requests),
		})
	}
	table.Render()

	return nil
}

func runProperties(cmd *cobra.Command, args []string) error {
	_, result, err := compute()
	if err != nil {
		return err
	}

	b := result.Breakdown
	if outputJSON {
		return printJSON(b)
	}

	printHeader(result, "Properties")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Property", "Revenue", "Occupancy", "Active Tenants"})
	for i, r := range b.RevenueByProperty {
		var occupancy float64
		var tenants int
		if i < len(b.OccupancyByProperty) {
			occupancy = b.OccupancyByProperty[i].Rate
		}
		if i < len(b.TenantsByProperty) {
			tenants = b.TenantsByProperty[i].Count
		}
		table.Append([]string{r.Property, money(r.Amount), percent(occupancy), fmt.Sprintf("%d", tenants)})
	}
	table.Render()

	fmt.Println("\nTop Properties")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Property", "Revenue", "Units", "Occupied", "Occupancy", "Revenue/Unit"})
	for i, p := range b.TopProperties {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			p.Name,
			money(p.TotalRevenue),
			fmt.Sprintf("%d", p.TotalUnits),
			fmt.Sprintf("%d", p.OccupiedUnits),
			percent(p.OccupancyRate),
			money(p.AverageRevenuePerUnit),
		})
	}
	table.Render()

	fmt.Println("\nMaintenance by Priority")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Priority", "Requests"})
	for _, l := range b.MaintenanceByPriority {
		table.Append([]string{l.Label, fmt.Sprintf("%d", l.Count)})
	}
	table.Render()

	fmt.Println("\nMaintenance by Category")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Requests"})
	for _, l := range b.MaintenanceByCategory {
		table.Append([]string{l.Label, fmt.Sprintf("%d", l.Count)})
	}
	table.Render()

	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	engine, result, err := compute()
	if err != nil {
		return err
	}

	artifact, err := engine.Export(result, format, export.Options{ReportType: reportType})
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	if exportOut == "" {
		_, err = fmt.Fprint(os.Stdout, artifact.Content)
		return err
	}
	if err := os.WriteFile(exportOut, []byte(artifact.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes, suggested name %s)\n", exportOut, artifact.SizeBytes, artifact.Filename)
	return nil
}
