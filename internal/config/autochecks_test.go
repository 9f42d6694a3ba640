package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/model"
)

func TestAutochecks_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "autochecks")
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	ac := &Autochecks{
		Host:         "db-01",
		DiscoveredAt: at,
		Items: []model.Item{
			{Name: "sites", Kind: model.ItemKindGroup, Patterns: &model.GroupPatterns{Include: []string{"/opt/omd/sites/*"}}, GroupingBehaviour: "mountpoint"},
			{Name: "/dev/sda1 /", Kind: model.ItemKindFilesystem, ItemAppearance: "volume_name_and_mountpoint"},
		},
	}
	require.NoError(t, SaveAutochecks(dir, ac))

	got, err := LoadAutochecks(dir, "db-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(got.DiscoveredAt))
	assert.Equal(t, ac.Items, got.Items)
}

func TestAutochecks_Missing(t *testing.T) {
	got, err := LoadAutochecks(t.TempDir(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAutochecksPath_SanitizesHost(t *testing.T) {
	assert.Equal(t, filepath.Join("d", "10.0.0.1_9100.yaml"), AutochecksPath("d", "10.0.0.1:9100"))
}
