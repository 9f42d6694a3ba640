package source

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"dfinspect/internal/client/vm"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
)

// Querier runs an instant PromQL query.
type Querier interface {
	QueryResults(ctx context.Context, query string, filter *vm.HostFilter) ([]vm.QueryResult, error)
}

// VM builds records from VictoriaMetrics, one query per record field.
type VM struct {
	client  Querier
	queries *model.QueriesConfig
	logger  zerolog.Logger
}

// NewVM creates a VictoriaMetrics-backed source.
func NewVM(client Querier, queries *model.QueriesConfig, logger zerolog.Logger) *VM {
	return &VM{
		client:  client,
		queries: queries,
		logger:  logger.With().Str("component", "vm-source").Logger(),
	}
}

// Name implements Source.
func (s *VM) Name() string { return "victoriametrics" }

type seriesKey struct {
	mountpoint string
	device     string
}

type partial struct {
	fstype string
	values map[model.RecordField]float64
}

// Records queries every configured field for the host and joins the series
// by mountpoint and device. A failed size or avail query skips the cycle;
// optional fields that fail are left empty.
func (s *VM) Records(ctx context.Context, host *model.HostMeta) ([]model.FilesystemRecord, error) {
	filter := &vm.HostFilter{Idents: []string{host.Ident}}
	series := make(map[seriesKey]*partial)

	for _, q := range s.queries.Queries {
		if q.IsPending() {
			continue
		}

		results, err := s.client.QueryResults(ctx, q.Query, filter)
		if err != nil {
			if q.Field == model.FieldSize || q.Field == model.FieldAvail {
				return nil, df.SkipCycle(fmt.Errorf("query %s for %s: %w", q.Field, host.Ident, err))
			}
			s.logger.Warn().Err(err).Str("host", host.Ident).Str("field", string(q.Field)).
				Msg("optional field query failed")
			continue
		}

		factor := q.Unit.ToMB()
		for _, r := range results {
			mp := r.Label(s.queries.PathLabel)
			if mp == "" {
				continue
			}
			key := seriesKey{mountpoint: mp, device: r.Label(s.queries.DeviceLabel)}
			p, ok := series[key]
			if !ok {
				p = &partial{values: make(map[model.RecordField]float64)}
				series[key] = p
			}
			if fs := r.Label(s.queries.FSTypeLabel); fs != "" {
				p.fstype = fs
			}
			p.values[q.Field] = r.Value * factor
		}
	}

	keys := make([]seriesKey, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].mountpoint != keys[j].mountpoint {
			return keys[i].mountpoint < keys[j].mountpoint
		}
		return keys[i].device < keys[j].device
	})

	records := make([]model.FilesystemRecord, 0, len(keys))
	for _, k := range keys {
		records = append(records, buildRecord(k, series[k]))
	}

	s.logger.Debug().Str("host", host.Ident).Int("records", len(records)).Msg("records built")
	return records, nil
}

func buildRecord(k seriesKey, p *partial) model.FilesystemRecord {
	size, hasSize := p.values[model.FieldSize]
	avail, hasAvail := p.values[model.FieldAvail]
	if !hasSize || !hasAvail {
		rec := model.NewNARecord(k.device, k.mountpoint)
		rec.FSType = p.fstype
		return rec
	}

	rec := model.FilesystemRecord{
		Device:     k.device,
		Mountpoint: k.mountpoint,
		FSType:     p.fstype,
		SizeMB:     size,
		AvailMB:    avail,
		ReservedMB: p.values[model.FieldReserved],
	}

	total, hasTotal := p.values[model.FieldInodesTotal]
	free, hasFree := p.values[model.FieldInodesFree]
	if hasTotal && hasFree && isCount(total) && isCount(free) {
		rec.Inodes = &model.Inodes{Total: int64(total), Avail: int64(free)}
	}
	return rec
}

func isCount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
