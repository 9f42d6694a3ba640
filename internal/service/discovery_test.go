package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/config"
	"dfinspect/internal/df"
	"dfinspect/internal/model"
)

func TestDiscoveryRunner_WritesSnapshots(t *testing.T) {
	src := newFakeSource()
	tmp := fsRecord("/run", 10, 10)
	tmp.FSType = "tmpfs"
	src.set("h1", fsRecord("/", 100, 50), tmp, fsRecord("/srv/a", 10, 5))
	src.errs["h2"] = df.SkipCycle(errors.New("vm down"))

	cfg := createTestConfig("h1", "h2")
	cfg.Discovery.AutochecksDir = t.TempDir()
	cfg.Groups = []config.GroupConfig{{Name: "srv", Include: []string{"/srv/*"}}}

	runner := NewDiscoveryRunner(cfg, NewCollector(cfg, nil, src, zerolog.Nop()), zerolog.Nop())
	runner.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }

	out, err := runner.Run(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.NoError(t, out[0].Err)
	require.Len(t, out[0].Items, 2)
	assert.Equal(t, "srv", out[0].Items[0].Name)
	assert.Equal(t, model.ItemKindGroup, out[0].Items[0].Kind)
	assert.Equal(t, "/", out[0].Items[1].Name)
	assert.ErrorIs(t, out[1].Err, df.ErrSkipCycle)

	ac, err := config.LoadAutochecks(cfg.Discovery.AutochecksDir, "h1")
	require.NoError(t, err)
	require.NotNil(t, ac)
	assert.Equal(t, out[0].Items, ac.Items)

	missing, err := config.LoadAutochecks(cfg.Discovery.AutochecksDir, "h2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDiscoveryRunner_RequiresDir(t *testing.T) {
	cfg := createTestConfig("h1")
	runner := NewDiscoveryRunner(cfg, NewCollector(cfg, nil, newFakeSource(), zerolog.Nop()), zerolog.Nop())

	_, err := runner.Run(context.Background(), true)
	assert.Error(t, err)

	out, err := runner.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
