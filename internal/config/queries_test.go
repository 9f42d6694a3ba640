package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/model"
)

func writeQueries(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "df-queries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQueries_Success(t *testing.T) {
	path := writeQueries(t, `
queries:
  - field: size
    query: 'disk_total'
  - field: avail
    query: 'disk_free'
  - field: inodes_total
    query: 'disk_inodes_total'
    unit: count
  - field: reserved
    query: ''
    note: "需要 node_exporter"
`)

	cfg, err := LoadQueries(path)
	require.NoError(t, err)

	assert.Equal(t, "path", cfg.PathLabel)
	assert.Equal(t, "device", cfg.DeviceLabel)
	assert.Equal(t, "fstype", cfg.FSTypeLabel)
	assert.Equal(t, model.UnitBytes, cfg.Get(model.FieldSize).Unit)
	assert.Equal(t, model.UnitCount, cfg.Get(model.FieldInodesTotal).Unit)
	assert.True(t, cfg.Get(model.FieldReserved).IsPending())
	assert.Nil(t, cfg.Get(model.FieldInodesFree))
	assert.Equal(t, 3, CountActiveQueries(cfg))
}

func TestLoadQueries_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing avail",
			content: "queries:\n  - field: size\n    query: 'disk_total'\n",
			wantErr: `required field "avail"`,
		},
		{
			name:    "unknown field",
			content: "queries:\n  - field: used\n    query: 'x'\n",
			wantErr: "unknown field",
		},
		{
			name:    "duplicate field",
			content: "queries:\n  - field: size\n    query: 'a'\n  - field: size\n    query: 'b'\n",
			wantErr: "defined twice",
		},
		{
			name:    "bad yaml",
			content: "queries: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadQueries(writeQueries(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadQueries_FileNotFound(t *testing.T) {
	_, err := LoadQueries("/nonexistent/path/df-queries.yaml")
	assert.Error(t, err)

	_, err = LoadQueries("")
	assert.Error(t, err)
}
