package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: DFINSPECT_<SECTION>_<KEY> (e.g., DFINSPECT_DATASOURCES_N9E_TOKEN)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DFINSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Datasources defaults
	v.SetDefault("datasources.n9e.timeout", 30*time.Second)
	v.SetDefault("datasources.victoriametrics.timeout", 30*time.Second)
	v.SetDefault("datasources.victoriametrics.queries_file", "configs/df-queries.yaml")

	// Inspection defaults
	v.SetDefault("inspection.source", SourceVictoriaMetrics)
	v.SetDefault("inspection.concurrency", 20)
	v.SetDefault("inspection.host_timeout", 10*time.Second)

	// Level defaults, floats select percentages
	v.SetDefault("df.levels.warning", 80.0)
	v.SetDefault("df.levels.critical", 90.0)
	v.SetDefault("df.levels_low.warning", 50.0)
	v.SetDefault("df.levels_low.critical", 60.0)
	v.SetDefault("df.magic", 0.0)
	v.SetDefault("df.magic_normsize", 20.0)
	v.SetDefault("df.inodes_levels.warning", 10.0)
	v.SetDefault("df.inodes_levels.critical", 5.0)
	v.SetDefault("df.trend_range", 24)
	v.SetDefault("df.trend_perfdata", true)
	v.SetDefault("df.show_levels", "onmagic")
	v.SetDefault("df.show_inodes", "onlow")
	v.SetDefault("df.show_reserved", false)
	v.SetDefault("df.show_volume_name", false)
	v.SetDefault("df.subtract_reserved", false)

	// Discovery defaults
	v.SetDefault("discovery.item_appearance", "mountpoint")
	v.SetDefault("discovery.grouping_behaviour", "mountpoint")
	v.SetDefault("discovery.ignore_fs_types", []string{"tmpfs", "nfs", "smbfs", "cifs", "iso9660"})

	// Trend store defaults
	v.SetDefault("store.path", "./data/trend.db")
	v.SetDefault("store.retry.max_retries", 5)
	v.SetDefault("store.retry.base_delay", 50*time.Millisecond)
	v.SetDefault("store.prune_after", 30*24*time.Hour)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{"excel", "html"})
	v.SetDefault("report.filename_template", "df_report_{{.Date}}")
	v.SetDefault("report.timezone", "Asia/Shanghai")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)
}
