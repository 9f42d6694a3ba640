package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dfinspect/internal/client/n9e"
	"dfinspect/internal/client/vm"
	"dfinspect/internal/config"
	"dfinspect/internal/service"
	"dfinspect/internal/source"
	"dfinspect/internal/trend"
)

// app holds the components shared by the inspection commands.
type app struct {
	cfg       *config.Config
	collector *service.Collector
	store     trend.Store
	inspector *service.Inspector
	logger    zerolog.Logger
}

// newApp wires the datasource, inventory and trend store described by cfg.
// withStore controls whether the sqlite trend store is opened; without it
// trends are kept in memory for the lifetime of the process.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, withStore bool) (*app, error) {
	src, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	var inventory service.HostLister
	if cfg.Datasources.N9E.Endpoint != "" && cfg.Inspection.Source != config.SourceLocal {
		inventory = n9e.NewClient(&cfg.Datasources.N9E, &cfg.HTTP.Retry, logger)
	}
	collector := service.NewCollector(cfg, inventory, src, logger)

	var store trend.Store = trend.NewMemoryStore()
	if withStore {
		store, err = trend.OpenSQLite(ctx, cfg.Store.Path, trend.RetryPolicy{
			MaxRetries: cfg.Store.Retry.MaxRetries,
			BaseDelay:  cfg.Store.Retry.BaseDelay,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open trend store: %w", err)
		}
	}

	inspector, err := service.NewInspector(cfg, collector, store, logger, service.WithVersion(Version))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		collector: collector,
		store:     store,
		inspector: inspector,
		logger:    logger,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close trend store")
	}
}

func newSource(cfg *config.Config, logger zerolog.Logger) (source.Source, error) {
	if cfg.Inspection.Source == config.SourceLocal {
		return source.NewLocal(nil, logger), nil
	}

	queries, err := config.LoadQueries(cfg.Datasources.VictoriaMetrics.QueriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	logger.Debug().Int("active_queries", config.CountActiveQueries(queries)).Msg("queries loaded")

	client := vm.NewClient(&cfg.Datasources.VictoriaMetrics, &cfg.HTTP.Retry, logger)
	return source.NewVM(client, queries, logger), nil
}
