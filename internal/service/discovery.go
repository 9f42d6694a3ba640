package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dfinspect/internal/config"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
)

// HostDiscovery is the discovery outcome of one host.
type HostDiscovery struct {
	Host  string       // 主机标识
	Items []model.Item // 发现的监控项
	Err   error        // 发现失败原因
}

// DiscoveryRunner discovers items and stores them as autochecks snapshots.
type DiscoveryRunner struct {
	collector   *Collector
	groups      []df.GroupDefinition
	options     df.DiscoveryOptions
	dir         string
	concurrency int
	hostTimeout time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// NewDiscoveryRunner creates a runner writing below cfg.Discovery.AutochecksDir.
func NewDiscoveryRunner(cfg *config.Config, collector *Collector, logger zerolog.Logger) *DiscoveryRunner {
	concurrency := cfg.Inspection.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &DiscoveryRunner{
		collector:   collector,
		groups:      cfg.GroupDefinitions(),
		options:     cfg.DiscoveryOptions(),
		dir:         cfg.Discovery.AutochecksDir,
		concurrency: concurrency,
		hostTimeout: cfg.Inspection.HostTimeout,
		now:         time.Now,
		logger:      logger.With().Str("component", "discovery").Logger(),
	}
}

// Run discovers all hosts. With write set the snapshots are replaced; hosts
// whose records could not be read keep their previous snapshot.
func (d *DiscoveryRunner) Run(ctx context.Context, write bool) ([]HostDiscovery, error) {
	if write && d.dir == "" {
		return nil, errors.New("discovery.autochecks_dir is not configured")
	}

	hosts, err := d.collector.Hosts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]HostDiscovery, len(hosts))
	var mu sync.Mutex
	written := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for idx, host := range hosts {
		g.Go(func() error {
			hd := d.discoverHost(gctx, host)
			if hd.Err == nil && write {
				hd.Err = config.SaveAutochecks(d.dir, &config.Autochecks{
					Host:         host.Ident,
					DiscoveredAt: d.now(),
					Items:        hd.Items,
				})
				if hd.Err == nil {
					mu.Lock()
					written++
					mu.Unlock()
				}
			}
			out[idx] = hd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	d.logger.Info().Int("hosts", len(hosts)).Int("written", written).Msg("discovery completed")
	return out, nil
}

func (d *DiscoveryRunner) discoverHost(ctx context.Context, host *model.HostMeta) HostDiscovery {
	if d.hostTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.hostTimeout)
		defer cancel()
	}

	records, err := d.collector.Records(ctx, host)
	if err != nil {
		d.logger.Warn().Err(err).Str("host", host.Ident).Msg("discovery skipped")
		return HostDiscovery{Host: host.Ident, Err: err}
	}
	return HostDiscovery{Host: host.Ident, Items: df.Discover(records, d.groups, d.options)}
}
