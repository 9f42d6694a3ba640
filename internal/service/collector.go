// Package service provides the inspection and discovery workflows.
package service

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"dfinspect/internal/config"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
	"dfinspect/internal/source"
)

// HostLister lists the hosts of an inventory.
type HostLister interface {
	GetHostMetas(ctx context.Context) ([]*model.HostMeta, error)
}

// Collector resolves the host list and the records of each host.
type Collector struct {
	inventory HostLister // 可为空
	static    []string
	source    source.Source
	logger    zerolog.Logger
}

// NewCollector creates a new Collector. inventory may be nil.
func NewCollector(cfg *config.Config, inventory HostLister, src source.Source, logger zerolog.Logger) *Collector {
	c := &Collector{
		inventory: inventory,
		source:    src,
		logger:    logger.With().Str("component", "collector").Logger(),
	}
	if cfg != nil {
		c.static = cfg.Inspection.Hosts
	}
	return c
}

// Hosts returns the hosts to inspect. A static list wins over the inventory;
// the local source always inspects the machine it runs on.
func (c *Collector) Hosts(ctx context.Context) ([]*model.HostMeta, error) {
	if c.source.Name() == config.SourceLocal {
		name, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to get hostname: %w", err)
		}
		return []*model.HostMeta{{Ident: name, Hostname: name}}, nil
	}

	if len(c.static) > 0 {
		hosts := make([]*model.HostMeta, 0, len(c.static))
		for _, ident := range c.static {
			hosts = append(hosts, &model.HostMeta{Ident: ident, Hostname: model.CleanIdent(ident)})
		}
		return hosts, nil
	}

	if c.inventory == nil {
		return nil, fmt.Errorf("no hosts configured: set inspection.hosts or datasources.n9e")
	}

	hosts, err := c.inventory.GetHostMetas(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get host metas")
		return nil, fmt.Errorf("host inventory error: %w", err)
	}
	c.logger.Info().Int("count", len(hosts)).Msg("collected host metas")
	return hosts, nil
}

// Records returns the records of one host with btrfs subvolumes collapsed.
func (c *Collector) Records(ctx context.Context, host *model.HostMeta) ([]model.FilesystemRecord, error) {
	records, err := c.source.Records(ctx, host)
	if err != nil {
		return nil, err
	}
	return df.CollapseBtrfs(records), nil
}
