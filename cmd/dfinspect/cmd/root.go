// Package cmd provides CLI commands for dfinspect.
package cmd

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dfinspect/internal/config"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Global flags
var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "dfinspect",
	Short: "文件系统使用率巡检工具",
	Long: `dfinspect 按照配置的阈值评估主机文件系统使用率，支持百分比与绝对容量阈值、
按容量分级阈值、magic factor 缩放、inode 检查、增长趋势预测以及文件系统分组。

数据来源: VictoriaMetrics（主机清单来自夜莺 N9E 或静态列表）或本机磁盘。
输出: 终端摘要、Excel/HTML 报告、Prometheus textfile 指标。`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (debug, info, warn, error)，覆盖配置文件")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, setupLogger("error", "console", os.Stderr), err
	}
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := setupLogger(level, cfg.Logging.Format, os.Stderr)
	logger.Debug().Str("config_path", cfgFile).Str("log_level", level).Msg("configuration loaded")
	return cfg, logger, nil
}

// setupLogger creates a zerolog logger with the given level and format.
// Timestamps are rendered in Asia/Shanghai.
func setupLogger(level, format string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	tz, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		tz = time.Local
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(tz)
	}

	if format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
