// Package analytics computes dashboard analytics for a period by fanning out
// over the metric sources and reducing the fetched records in memory.
package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kurihiro0119/property-analytics/internal/aggregator"
	"github.com/kurihiro0119/property-analytics/internal/collector"
	"github.com/kurihiro0119/property-analytics/internal/domain"
	apperrors "github.com/kurihiro0119/property-analytics/internal/errors"
	"github.com/kurihiro0119/property-analytics/internal/export"
	"github.com/kurihiro0119/property-analytics/internal/period"
)

// Options tune the shape of a computed result
type Options struct {
	TrendBuckets int
	TopN         int
}

// Engine is the entry point for computing and exporting analytics. It keeps
// no state between calls and is safe for concurrent use.
type Engine struct {
	sources  collector.Sources
	opts     Options
	now      func() time.Time
	exporter *export.Exporter
}

// New creates an engine over sources. A nil clock uses time.Now.
func New(sources collector.Sources, opts Options, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if opts.TrendBuckets <= 0 {
		opts.TrendBuckets = period.DefaultBuckets
	}
	if opts.TopN <= 0 {
		opts.TopN = aggregator.DefaultTopN
	}
	return &Engine{
		sources:  sources,
		opts:     opts,
		now:      now,
		exporter: export.NewExporter(now),
	}
}

// ComputeAnalytics resolves filter, fetches every source over one window and
// assembles the result. Missing data degrades to zeros; only an unreachable
// record store fails the call.
func (e *Engine) ComputeAnalytics(ctx context.Context, filter domain.PeriodFilter) (*domain.AnalyticsResult, error) {
	if filter.Kind == "" {
		filter.Kind = domain.PeriodMonthly
	}
	now := e.now()
	w := newWindows(filter, now, e.opts.TrendBuckets)

	logger := zerolog.Ctx(ctx).With().
		Str("timeframe", string(filter.Kind)).
		Str("property_id", filter.PropertyID).
		Time("start", w.period.Start).
		Time("end", w.period.End).
		Logger()
	ctx = logger.WithContext(ctx)

	records, err := e.fetch(ctx, w.fetch, filter.PropertyID)
	if err != nil {
		return nil, err
	}

	result := assemble(records, w, filter, now, e.opts.TopN)
	if err := e.enrichTopProperties(ctx, result.Breakdown.TopProperties); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("properties", result.Summary.TotalProperties).
		Float64("revenue", result.Summary.TotalRevenue).
		Msg("analytics computed")
	return result, nil
}

// Export renders result as an artifact. result is not modified.
func (e *Engine) Export(result *domain.AnalyticsResult, format domain.ExportFormat, opts export.Options) (*domain.ExportArtifact, error) {
	return e.exporter.Export(result, format, opts)
}

// sourceRecords is everything fetched for one computation
type sourceRecords struct {
	financial   domain.FinancialRecords
	property    domain.PropertyRecords
	tenant      domain.TenantRecords
	maintenance domain.MaintenanceRecords
}

// sourceResult is the settled outcome of one source
type sourceResult[T any] struct {
	Records T
	Err     error
}

// fetch issues the four sources concurrently and waits for all of them
// before applying the merge policy.
func (e *Engine) fetch(ctx context.Context, window domain.Period, propertyID string) (sourceRecords, error) {
	var (
		wg          sync.WaitGroup
		financial   sourceResult[domain.FinancialRecords]
		property    sourceResult[domain.PropertyRecords]
		tenant      sourceResult[domain.TenantRecords]
		maintenance sourceResult[domain.MaintenanceRecords]
	)

	if src := e.sources.Financial; src != nil {
		wg.Go(func() {
			financial.Records, financial.Err = src.CollectFinancial(ctx, window, propertyID)
		})
	}
	if src := e.sources.Property; src != nil {
		wg.Go(func() {
			property.Records, property.Err = src.CollectProperties(ctx, window, propertyID)
		})
	}
	if src := e.sources.Tenant; src != nil {
		wg.Go(func() {
			tenant.Records, tenant.Err = src.CollectTenants(ctx, window, propertyID)
		})
	}
	if src := e.sources.Maintenance; src != nil {
		wg.Go(func() {
			maintenance.Records, maintenance.Err = src.CollectMaintenance(ctx, window, propertyID)
		})
	}
	wg.Wait()

	var (
		out  sourceRecords
		errs [4]error
	)
	out.financial, errs[0] = settle(ctx, "financial", financial)
	out.property, errs[1] = settle(ctx, "property", property)
	out.tenant, errs[2] = settle(ctx, "tenant", tenant)
	out.maintenance, errs[3] = settle(ctx, "maintenance", maintenance)
	for _, err := range errs {
		if err != nil {
			return sourceRecords{}, err
		}
	}
	return out, nil
}

// settle applies the merge policy to one source. Transport failures and
// cancellation reject the computation; anything else yields empty records.
func settle[T any](ctx context.Context, name string, r sourceResult[T]) (T, error) {
	if r.Err == nil {
		return r.Records, nil
	}
	var empty T
	if isFatal(r.Err) {
		zerolog.Ctx(ctx).Error().Err(r.Err).Str("source", name).Msg("source failed")
		return empty, r.Err
	}
	zerolog.Ctx(ctx).Warn().Err(r.Err).Str("source", name).Msg("source degraded to empty result")
	return empty, nil
}

func isFatal(err error) bool {
	return apperrors.IsUpstreamUnavailable(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// enrichTopProperties replaces the unit figures of each top property with a
// unit level count. The lookups run concurrently and are bounded by TopN.
func (e *Engine) enrichTopProperties(ctx context.Context, top []domain.PropertyPerformance) error {
	src := e.sources.Property
	if src == nil || len(top) == 0 {
		return nil
	}

	var g errgroup.Group
	for i := range top {
		g.Go(func() error {
			units, err := src.CountUnits(ctx, top[i].ID)
			if err != nil {
				if isFatal(err) {
					return err
				}
				zerolog.Ctx(ctx).Warn().Err(err).Str("property_id", top[i].ID).Msg("unit count unavailable")
				return nil
			}
			top[i] = aggregator.ApplyUnitCount(top[i], units)
			return nil
		})
	}
	return g.Wait()
}
