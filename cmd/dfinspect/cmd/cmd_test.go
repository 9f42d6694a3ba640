package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/config"
	"dfinspect/internal/model"
	"dfinspect/internal/service"
	"dfinspect/internal/source"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(model.StateOK))
	assert.Equal(t, 1, exitCode(model.StateWarn))
	assert.Equal(t, 2, exitCode(model.StateCrit))
	assert.Equal(t, 3, exitCode(model.StateUnknown))
}

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger("warn", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	logger.Info().Msg("hidden")
	logger.Warn().Str("host", "web-01").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "web-01", entry["host"])
	assert.Contains(t, entry, "time")
}

func TestSetupLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger("verbose", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestPrintHost(t *testing.T) {
	host := model.NewHostResult(&model.HostMeta{Hostname: "web-01"})
	v := model.NewVerdict(model.StateCrit, "Used: 95.00%")
	v.AddLine("3 filesystems")
	host.AddItem(&model.ItemResult{Item: model.Item{Name: "data"}, Verdict: v})

	var buf bytes.Buffer
	printHost(&buf, host)

	out := buf.String()
	assert.Contains(t, out, "web-01 (critical)")
	assert.Contains(t, out, "data - Used: 95.00% (!!)")
	assert.Contains(t, out, "      3 filesystems\n")
}

func TestPrintSummary(t *testing.T) {
	result := model.NewInspectionResult(time.Now())
	host := model.NewHostResult(&model.HostMeta{Hostname: "web-01"})
	host.AddItem(&model.ItemResult{Item: model.Item{Name: "/var"}, Verdict: model.NewVerdict(model.StateWarn, "Used: 85.00%\nmore")})
	result.AddHost(host)
	result.Finalize(time.Now())

	var buf bytes.Buffer
	printSummary(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "主机总数: 1")
	assert.Contains(t, out, "web-01 /var - Used: 85.00%\n")
	assert.NotContains(t, out, "more")
}

func TestResolveHost(t *testing.T) {
	cfg := &config.Config{}
	cfg.Inspection.Hosts = []string{"web-01@10.0.0.1", "db-01"}
	src := source.NewVM(nil, &model.QueriesConfig{}, zerolog.Nop())
	a := &app{collector: service.NewCollector(cfg, nil, src, zerolog.Nop())}
	ctx := context.Background()

	h, err := resolveHost(ctx, a, "web-01")
	require.NoError(t, err)
	assert.Equal(t, "web-01@10.0.0.1", h.Ident)

	h, err = resolveHost(ctx, a, "mail-01@10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, "mail-01", h.Hostname, "unknown idents are still checked")

	_, err = resolveHost(ctx, a, "")
	assert.Error(t, err, "several hosts require --host")
}

func TestVersionCmd_Short(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version", "--short"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		versionShort = false
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, Version+"\n", buf.String())
}
