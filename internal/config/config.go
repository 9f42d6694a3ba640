// Package config provides configuration management for dfinspect.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Datasources DatasourcesConfig `mapstructure:"datasources"`
	Inspection  InspectionConfig  `mapstructure:"inspection"`
	DF          DFConfig          `mapstructure:"df"`
	Groups      []GroupConfig     `mapstructure:"groups" validate:"dive"`
	Discovery   DiscoveryConfig   `mapstructure:"discovery"`
	Store       StoreConfig       `mapstructure:"store"`
	Report      ReportConfig      `mapstructure:"report"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// DatasourcesConfig contains configurations for data sources.
type DatasourcesConfig struct {
	N9E             N9EConfig             `mapstructure:"n9e"`
	VictoriaMetrics VictoriaMetricsConfig `mapstructure:"victoriametrics"`
}

// N9EConfig contains configuration for the N9E (Nightingale) host inventory.
// An empty endpoint disables the inventory.
type N9EConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Token    string        `mapstructure:"token" validate:"required_with=Endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Query    string        `mapstructure:"query"` // 主机过滤条件（如 "items=存储集群"）
}

// VictoriaMetricsConfig contains configuration for the VictoriaMetrics API.
type VictoriaMetricsConfig struct {
	Endpoint    string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	QueriesFile string        `mapstructure:"queries_file"` // 字段查询定义文件
}

// Record sources.
const (
	SourceVictoriaMetrics = "victoriametrics"
	SourceLocal           = "local"
)

// InspectionConfig contains configurations for inspection behavior.
type InspectionConfig struct {
	Source      string        `mapstructure:"source" validate:"oneof=victoriametrics local"`
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=100"`
	HostTimeout time.Duration `mapstructure:"host_timeout"`
	Hosts       []string      `mapstructure:"hosts"` // 静态主机列表，优先于 N9E
	HostFilter  HostFilter    `mapstructure:"host_filter"`
}

// HostFilter defines host filtering criteria.
// BusinessGroups uses OR logic; Tags uses AND logic with BusinessGroups.
type HostFilter struct {
	BusinessGroups []string          `mapstructure:"business_groups"` // OR relation
	Tags           map[string]string `mapstructure:"tags"`            // AND relation with business groups
}

// DFConfig holds the default level parameters applied to every item.
type DFConfig struct {
	Levels        LevelsConfig  `mapstructure:"levels"`
	LevelsLow     ThresholdPair `mapstructure:"levels_low"`
	Magic         float64       `mapstructure:"magic" validate:"gte=0,lte=1"` // 0 表示不启用
	MagicNormsize float64       `mapstructure:"magic_normsize" validate:"gt=0"`
	InodesLevels  LevelsConfig  `mapstructure:"inodes_levels"`

	TrendRange        int            `mapstructure:"trend_range" validate:"gte=0"` // 小时，0 表示不计算趋势
	TrendPerfdata     bool           `mapstructure:"trend_perfdata"`
	TrendMB           *ThresholdPair `mapstructure:"trend_mb"`       // 每个趋势周期增长 MB
	TrendPerc         *ThresholdPair `mapstructure:"trend_perc"`     // 每个趋势周期增长占容量百分比
	TrendTimeleft     *ThresholdPair `mapstructure:"trend_timeleft"` // 距写满剩余小时数
	TrendShowTimeleft bool           `mapstructure:"trend_showtimeleft"`

	ShowLevels       string `mapstructure:"show_levels" validate:"oneof=always onproblem onmagic"`
	ShowReserved     bool   `mapstructure:"show_reserved"`
	SubtractReserved bool   `mapstructure:"subtract_reserved"`
	ShowInodes       string `mapstructure:"show_inodes" validate:"oneof=always onlow onproblem"`
	ShowVolumeName   bool   `mapstructure:"show_volume_name"` // 结果前显示设备名
}

// LevelsConfig is a warn/crit pair or a list of size tiers.
//
// Level values keep their YAML type: a float (80.0) is a percentage and an
// integer (500) is an absolute MB value. Strings may say so explicitly
// ("80%", "-2GB").
type LevelsConfig struct {
	Warning  any          `mapstructure:"warning"`
	Critical any          `mapstructure:"critical"`
	Tiers    []TierConfig `mapstructure:"tiers" validate:"dive"`
	Disabled bool         `mapstructure:"disabled"`
}

// TierConfig applies its levels to objects larger than Above.
type TierConfig struct {
	Above    string `mapstructure:"above" validate:"required"` // 如 "100GiB"；inode 分级为数量
	Warning  any    `mapstructure:"warning"`
	Critical any    `mapstructure:"critical"`
}

// ThresholdPair defines warning and critical values.
type ThresholdPair struct {
	Warning  float64 `mapstructure:"warning"`
	Critical float64 `mapstructure:"critical"`
}

// GroupConfig defines a named filesystem group.
type GroupConfig struct {
	Name    string   `mapstructure:"name" validate:"required"`
	Include []string `mapstructure:"include" validate:"required,min=1"`
	Exclude []string `mapstructure:"exclude"`
}

// DiscoveryConfig controls how items are discovered.
type DiscoveryConfig struct {
	ItemAppearance         string   `mapstructure:"item_appearance" validate:"oneof=mountpoint volume_name_and_mountpoint"`
	GroupingBehaviour      string   `mapstructure:"grouping_behaviour" validate:"oneof=mountpoint volume_name_and_mountpoint"`
	IgnoreFSTypes          []string `mapstructure:"ignore_fs_types"`
	NeverIgnoreMountpoints []string `mapstructure:"never_ignore_mountpoints"`
	AutochecksDir          string   `mapstructure:"autochecks_dir"` // 发现结果快照目录，为空则每次实时发现
}

// StoreConfig configures the persisted trend store.
type StoreConfig struct {
	Path       string        `mapstructure:"path" validate:"required"`
	Retry      RetryConfig   `mapstructure:"retry"`
	PruneAfter time.Duration `mapstructure:"prune_after"` // 超过该时间未更新的趋势数据将被清理，0 表示不清理
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=excel html"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	Timezone         string   `mapstructure:"timezone" validate:"timezone"`
	HTMLTemplate     string   `mapstructure:"html_template"` // 自定义 HTML 模板路径，为空使用内置模板
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests and store writes.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // node_exporter textfile 路径，为空则不导出
}
