package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dfinspect/internal/config"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
	"dfinspect/internal/trend"
)

const defaultTimezone = "Asia/Shanghai"

// Inspector runs the evaluation of every item of every host.
type Inspector struct {
	collector     *Collector
	store         trend.Store // 为空则不计算趋势
	params        df.Params
	groups        []df.GroupDefinition
	discovery     df.DiscoveryOptions
	autochecksDir string
	concurrency   int
	hostTimeout   time.Duration
	timezone      *time.Location
	version       string
	now           func() time.Time
	logger        zerolog.Logger
}

// InspectorOption is a functional option for configuring an Inspector.
type InspectorOption func(*Inspector)

// WithVersion sets the tool version to include in the inspection result.
func WithVersion(version string) InspectorOption {
	return func(i *Inspector) {
		i.version = version
	}
}

// WithClock overrides the evaluation time source.
func WithClock(now func() time.Time) InspectorOption {
	return func(i *Inspector) {
		i.now = now
	}
}

// NewInspector creates a new Inspector. store may be nil.
func NewInspector(
	cfg *config.Config,
	collector *Collector,
	store trend.Store,
	logger zerolog.Logger,
	opts ...InspectorOption,
) (*Inspector, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, fmt.Errorf("invalid df parameters: %w", err)
	}

	tzName := defaultTimezone
	if cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	i := &Inspector{
		collector:     collector,
		store:         store,
		params:        params,
		groups:        cfg.GroupDefinitions(),
		discovery:     cfg.DiscoveryOptions(),
		autochecksDir: cfg.Discovery.AutochecksDir,
		concurrency:   cfg.Inspection.Concurrency,
		hostTimeout:   cfg.Inspection.HostTimeout,
		timezone:      loc,
		version:       "dev",
		now:           time.Now,
		logger:        logger.With().Str("component", "inspector").Logger(),
	}
	if i.concurrency < 1 {
		i.concurrency = 1
	}

	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Run inspects all hosts concurrently and aggregates the results.
// Host level failures are recorded on the host; only a failing host list aborts.
func (i *Inspector) Run(ctx context.Context) (*model.InspectionResult, error) {
	startTime := i.now().In(i.timezone)
	i.logger.Info().Time("start_time", startTime).Msg("starting inspection")

	result := model.NewInspectionResult(startTime)
	result.Version = i.version

	hosts, err := i.collector.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("data collection failed: %w", err)
	}

	hostResults := make([]*model.HostResult, len(hosts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for idx, host := range hosts {
		g.Go(func() error {
			hostResults[idx] = i.InspectHost(gctx, host)
			return nil // a single host never aborts the run
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inspection failed: %w", err)
	}

	for _, hr := range hostResults {
		result.AddHost(hr)
	}
	result.Finalize(i.now().In(i.timezone))

	i.logger.Info().
		Int("total_hosts", result.Summary.TotalHosts).
		Int("warning_hosts", result.Summary.WarningHosts).
		Int("critical_hosts", result.Summary.CriticalHosts).
		Int("skipped_hosts", result.Summary.SkippedHosts).
		Int("total_alerts", result.AlertSummary.TotalAlerts).
		Dur("duration", result.Duration).
		Msg("inspection completed")

	return result, nil
}

// InspectHost evaluates the items of one host.
func (i *Inspector) InspectHost(ctx context.Context, host *model.HostMeta) *model.HostResult {
	if i.hostTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.hostTimeout)
		defer cancel()
	}

	now := i.now()
	hr := model.NewHostResult(host)
	hr.CollectedAt = now.In(i.timezone)
	logger := i.logger.With().Str("host", host.Ident).Logger()

	records, err := i.collector.Records(ctx, host)
	if err != nil {
		if errors.Is(err, df.ErrSkipCycle) {
			logger.Warn().Err(err).Msg("no data this cycle, skipping host")
			hr.MarkSkipped(err.Error())
		} else {
			logger.Error().Err(err).Msg("failed to collect records")
			hr.Status = model.HostStatusUnknown
			hr.Error = err.Error()
		}
		return hr
	}

	items := i.items(host, records, logger)

	var store df.TrendStore
	if i.store != nil {
		store = i.store.ForHost(host.Ident)
	}
	evaluator := df.NewEvaluator(store, logger)

	for _, item := range items {
		verdict := evaluator.CheckItem(ctx, item, records, i.params, now)
		hr.AddItem(NewItemResult(item, verdict))
	}

	logger.Debug().Int("items", len(items)).Str("status", string(hr.Status)).Msg("host inspected")
	return hr
}

// items returns the autochecks snapshot of a host, or a live discovery when
// there is none.
func (i *Inspector) items(host *model.HostMeta, records []model.FilesystemRecord, logger zerolog.Logger) []model.Item {
	if i.autochecksDir != "" {
		ac, err := config.LoadAutochecks(i.autochecksDir, host.Ident)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load autochecks, discovering live")
		} else if ac != nil {
			return ac.Items
		}
	}
	return df.Discover(records, i.groups, i.discovery)
}

// NewItemResult attaches the size and usage figures a report shows.
func NewItemResult(item model.Item, verdict model.Verdict) *model.ItemResult {
	ir := &model.ItemResult{Item: item, Verdict: verdict}
	if m := verdict.Metric("fs_size"); m != nil {
		ir.SizeMB = m.Value
	}
	if m := verdict.Metric("fs_used_percent"); m != nil {
		ir.UsedPercent = m.Value
	}
	return ir
}

// Timezone returns the configured timezone.
func (i *Inspector) Timezone() *time.Location {
	return i.timezone
}
