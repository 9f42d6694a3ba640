package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/config"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
	"dfinspect/internal/trend"
)

func newTestInspector(t *testing.T, cfg *config.Config, src *fakeSource, store trend.Store, clock *fixedClock) *Inspector {
	t.Helper()
	collector := NewCollector(cfg, nil, src, zerolog.Nop())
	insp, err := NewInspector(cfg, collector, store, zerolog.Nop(), WithVersion("test"), WithClock(clock.now))
	require.NoError(t, err)
	return insp
}

// ============================================================================
// 巡检流程
// ============================================================================

func TestInspector_Run_HostStates(t *testing.T) {
	src := newFakeSource()
	src.set("ok-host", fsRecord("/", 1000, 500))
	src.set("crit-host", fsRecord("/", 1000, 50), fsRecord("/data", 1000, 900))
	src.errs["skip-host"] = df.SkipCycle(errors.New("vm down"))
	src.errs["err-host"] = errors.New("boom")

	cfg := createTestConfig("ok-host", "crit-host", "skip-host", "err-host")
	clock := &fixedClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	insp := newTestInspector(t, cfg, src, nil, clock)

	result, err := insp.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Hosts, 4)
	assert.Equal(t, "test", result.Version)
	assert.Equal(t, 1, result.Summary.NormalHosts)
	assert.Equal(t, 1, result.Summary.CriticalHosts)
	assert.Equal(t, 1, result.Summary.SkippedHosts)
	assert.Equal(t, 1, result.Summary.UnknownHosts)
	assert.Equal(t, 3, result.Summary.TotalItems)

	// order of the host list is kept
	assert.Equal(t, "ok-host", result.Hosts[0].Hostname)
	crit := result.GetHostByName("crit-host")
	require.NotNil(t, crit)
	require.Len(t, crit.Alerts, 1)
	assert.Equal(t, "/", crit.Alerts[0].Item)
	assert.Equal(t, model.StateCrit, crit.Alerts[0].State)
	assert.InDelta(t, 95.0, crit.Items[0].UsedPercent, 1e-9)
	assert.InDelta(t, 1000.0, crit.Items[0].SizeMB, 1e-9)

	skipped := result.GetHostByName("skip-host")
	assert.Contains(t, skipped.Error, "vm down")
	assert.Empty(t, skipped.Items)

	assert.True(t, result.HasCritical())
	assert.Equal(t, model.StateCrit, result.WorstState())
}

func TestInspector_Run_InventoryFailure(t *testing.T) {
	cfg := createTestConfig()
	collector := NewCollector(cfg, &fakeInventory{err: errors.New("401")}, newFakeSource(), zerolog.Nop())
	insp, err := NewInspector(cfg, collector, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = insp.Run(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestInspector_Run_InventoryHosts(t *testing.T) {
	src := newFakeSource()
	src.set("db-01@10.0.0.1", fsRecord("/", 100, 90))

	cfg := createTestConfig()
	inv := &fakeInventory{hosts: []*model.HostMeta{{Ident: "db-01@10.0.0.1", Hostname: "db-01", IP: "10.0.0.1"}}}
	collector := NewCollector(cfg, inv, src, zerolog.Nop())
	insp, err := NewInspector(cfg, collector, nil, zerolog.Nop())
	require.NoError(t, err)

	result, err := insp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Hosts, 1)
	assert.Equal(t, "10.0.0.1", result.Hosts[0].IP)
	assert.Equal(t, model.HostStatusNormal, result.Hosts[0].Status)
}

func TestInspector_TrendAcrossRuns(t *testing.T) {
	src := newFakeSource()
	src.set("h1", fsRecord("/", 10000, 9500))

	store := trend.NewMemoryStore()
	clock := &fixedClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	insp := newTestInspector(t, createTestConfig("h1"), src, store, clock)

	first, err := insp.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, first.Hosts[0].Items[0].Verdict.Summary, "trend per 1 day 0 hours: n/a")

	clock.advance(time.Hour)
	src.set("h1", fsRecord("/", 10000, 9400))

	second, err := insp.Run(context.Background())
	require.NoError(t, err)
	verdict := second.Hosts[0].Items[0].Verdict
	assert.Contains(t, verdict.Summary, "trend per 1 day 0 hours: +100.00 MiB")
	require.NotNil(t, verdict.Metric("growth"))
	assert.InDelta(t, 100.0, verdict.Metric("growth").Value, 1e-9)
}

func TestInspector_TrendKeysArePerHost(t *testing.T) {
	src := newFakeSource()
	src.set("a", fsRecord("/", 1000, 900))
	src.set("b", fsRecord("/", 1000, 100))

	store := trend.NewMemoryStore()
	clock := &fixedClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	insp := newTestInspector(t, createTestConfig("a", "b"), src, store, clock)

	_, err := insp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestInspector_Groups(t *testing.T) {
	src := newFakeSource()
	var records []model.FilesystemRecord
	for i := range 3 {
		records = append(records, fsRecord(fmt.Sprintf("/srv/site%d", i), 100, 5))
	}
	records = append(records, fsRecord("/", 100, 50))
	src.set("h1", records...)

	cfg := createTestConfig("h1")
	cfg.Groups = []config.GroupConfig{{Name: "sites", Include: []string{"/srv/*"}}}
	clock := &fixedClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	insp := newTestInspector(t, cfg, src, nil, clock)

	result, err := insp.Run(context.Background())
	require.NoError(t, err)

	items := result.Hosts[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "sites", items[0].Item.Name)
	assert.True(t, items[0].Item.IsGroup())
	assert.Equal(t, model.StateCrit, items[0].Verdict.State)
	assert.Equal(t, []string{items[0].Verdict.Lines()[0], "3 filesystems"}, items[0].Verdict.Lines())
	assert.Equal(t, 300.0, items[0].SizeMB)
	assert.Equal(t, "/", items[1].Item.Name)
}

// ============================================================================
// 发现快照
// ============================================================================

func TestInspector_UsesAutochecks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.SaveAutochecks(dir, &config.Autochecks{
		Host: "h1",
		Items: []model.Item{
			{Name: "/", Kind: model.ItemKindFilesystem},
			{Name: "/gone", Kind: model.ItemKindFilesystem},
		},
	}))

	src := newFakeSource()
	src.set("h1", fsRecord("/", 100, 50), fsRecord("/new", 100, 50))

	cfg := createTestConfig("h1")
	cfg.Discovery.AutochecksDir = dir
	clock := &fixedClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	insp := newTestInspector(t, cfg, src, nil, clock)

	result, err := insp.Run(context.Background())
	require.NoError(t, err)

	items := result.Hosts[0].Items
	require.Len(t, items, 2, "/new is not monitored until rediscovered")
	assert.Equal(t, model.StateOK, items[0].Verdict.State)
	assert.Equal(t, model.StateUnknown, items[1].Verdict.State)
	assert.Equal(t, "Item not found in monitoring data", items[1].Verdict.Summary)
	assert.Equal(t, model.HostStatusUnknown, result.Hosts[0].Status)
}

func TestNewInspector_InvalidParams(t *testing.T) {
	cfg := createTestConfig()
	cfg.DF.Levels.Warning = "lots"

	_, err := NewInspector(cfg, nil, nil, zerolog.Nop())
	assert.ErrorContains(t, err, "invalid df parameters")
}
