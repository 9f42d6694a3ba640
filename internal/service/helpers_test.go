package service

import (
	"context"
	"sync"
	"time"

	"dfinspect/internal/config"
	"dfinspect/internal/model"
)

// fakeSource returns canned records or errors per host ident.
type fakeSource struct {
	mu      sync.Mutex
	records map[string][]model.FilesystemRecord
	errs    map[string]error
	calls   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Records(_ context.Context, host *model.HostMeta) ([]model.FilesystemRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[host.Ident]; err != nil {
		return nil, err
	}
	return f.records[host.Ident], nil
}

func (f *fakeSource) set(host string, records ...model.FilesystemRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[host] = records
}

type fakeInventory struct {
	hosts []*model.HostMeta
	err   error
}

func (f *fakeInventory) GetHostMetas(context.Context) ([]*model.HostMeta, error) {
	return f.hosts, f.err
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		records: make(map[string][]model.FilesystemRecord),
		errs:    make(map[string]error),
	}
}

func fsRecord(mountpoint string, sizeMB, availMB float64) model.FilesystemRecord {
	return model.FilesystemRecord{
		Device:     "/dev/" + mountpoint,
		Mountpoint: mountpoint,
		FSType:     "ext4",
		SizeMB:     sizeMB,
		AvailMB:    availMB,
	}
}

// createTestConfig returns a config with factory df settings and the given static hosts.
func createTestConfig(hosts ...string) *config.Config {
	return &config.Config{
		Inspection: config.InspectionConfig{
			Source:      "victoriametrics",
			Concurrency: 4,
			HostTimeout: 5 * time.Second,
			Hosts:       hosts,
		},
		DF: config.DFConfig{
			Levels:        config.LevelsConfig{Warning: 80.0, Critical: 90.0},
			LevelsLow:     config.ThresholdPair{Warning: 50, Critical: 60},
			MagicNormsize: 20,
			InodesLevels:  config.LevelsConfig{Warning: 10.0, Critical: 5.0},
			TrendRange:    24,
			ShowLevels:    "onmagic",
			ShowInodes:    "onlow",
		},
		Discovery: config.DiscoveryConfig{
			ItemAppearance:    "mountpoint",
			GroupingBehaviour: "mountpoint",
			IgnoreFSTypes:     []string{"tmpfs"},
		},
		Report: config.ReportConfig{Timezone: "UTC"},
	}
}

// fixedClock is a settable clock.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
