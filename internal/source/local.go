package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"dfinspect/internal/df"
	"dfinspect/internal/model"
)

const bytesPerMB = 1024 * 1024

// DiskStats reads partitions and their usage.
type DiskStats interface {
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// systemDiskStats reads from the local kernel.
type systemDiskStats struct{}

func (systemDiskStats) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, true)
}

func (systemDiskStats) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

// Local builds records for the machine dfinspect runs on.
type Local struct {
	stats  DiskStats
	logger zerolog.Logger
}

// NewLocal creates a local source. A nil stats reads from the system.
func NewLocal(stats DiskStats, logger zerolog.Logger) *Local {
	if stats == nil {
		stats = systemDiskStats{}
	}
	return &Local{
		stats:  stats,
		logger: logger.With().Str("component", "local-source").Logger(),
	}
}

// Name implements Source.
func (s *Local) Name() string { return "local" }

// Records lists all mounted partitions. A partition whose usage cannot be
// read is reported without data; the host argument is ignored.
func (s *Local) Records(ctx context.Context, _ *model.HostMeta) ([]model.FilesystemRecord, error) {
	parts, err := s.stats.Partitions(ctx)
	if err != nil {
		return nil, df.SkipCycle(fmt.Errorf("list partitions: %w", err))
	}

	records := make([]model.FilesystemRecord, 0, len(parts))
	for _, p := range parts {
		usage, err := s.stats.Usage(ctx, p.Mountpoint)
		if err != nil {
			s.logger.Debug().Err(err).Str("mountpoint", p.Mountpoint).Msg("usage not readable")
			rec := model.NewNARecord(p.Device, p.Mountpoint)
			rec.FSType = p.Fstype
			records = append(records, rec)
			continue
		}
		records = append(records, usageRecord(p, usage))
	}
	return records, nil
}

// usageRecord converts statfs counters. Blocks that are neither used nor
// free to unprivileged users are the root reservation.
func usageRecord(p disk.PartitionStat, u *disk.UsageStat) model.FilesystemRecord {
	rec := model.FilesystemRecord{
		Device:     p.Device,
		Mountpoint: p.Mountpoint,
		FSType:     p.Fstype,
		SizeMB:     float64(u.Total) / bytesPerMB,
		AvailMB:    float64(u.Free) / bytesPerMB,
		ReservedMB: (float64(u.Total) - float64(u.Used) - float64(u.Free)) / bytesPerMB,
	}
	if u.InodesTotal > 0 {
		rec.Inodes = &model.Inodes{Total: int64(u.InodesTotal), Avail: int64(u.InodesFree)}
	}
	return rec
}
