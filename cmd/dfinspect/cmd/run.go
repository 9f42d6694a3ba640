package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dfinspect/internal/metrics"
	"dfinspect/internal/model"
	"dfinspect/internal/report"
)

var (
	outputDir string
	formats   []string
	noReport  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "执行文件系统巡检",
	Long: `对所有主机执行一次完整巡检：
1. 获取主机列表（静态列表、夜莺 N9E 或本机）
2. 查询文件系统数据并评估每个监控项
3. 更新趋势存储并清理过期数据
4. 生成 Excel/HTML 报告与 Prometheus textfile 指标

退出码: 0 正常，1 存在警告或未知，2 存在严重。

示例:
  dfinspect run -c config.yaml
  dfinspect run -c config.yaml -f html -o ./reports`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runInspection(); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "输出格式 (excel,html)，可用逗号分隔多个")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出目录")
	runCmd.Flags().BoolVar(&noReport, "no-report", false, "不生成报告文件")
}

func runInspection() int {
	out := os.Stdout
	printBanner(out)

	cfg, logger, err := loadConfig()
	if err != nil {
		logger.Error().Err(err).Str("path", cfgFile).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize")
		fmt.Fprintf(os.Stderr, "❌ 初始化失败: %v\n", err)
		return 1
	}
	defer a.Close()

	result, err := a.inspector.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("inspection failed")
		fmt.Fprintf(os.Stderr, "❌ 巡检失败: %v\n", err)
		return 1
	}
	printSummary(out, result)

	if cfg.Store.PruneAfter > 0 {
		removed, err := a.store.Prune(ctx, time.Now().Add(-cfg.Store.PruneAfter))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to prune trend store")
		} else if removed > 0 {
			logger.Info().Int64("removed", removed).Msg("pruned stale trend state")
		}
	}

	if cfg.Metrics.Textfile != "" {
		exporter := metrics.NewExporter()
		exporter.Observe(result)
		if err := exporter.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error().Err(err).Str("path", cfg.Metrics.Textfile).Msg("failed to write metrics")
		} else {
			logger.Info().Str("path", cfg.Metrics.Textfile).Msg("metrics textfile written")
		}
	}

	if !noReport {
		writeReports(out, a, result)
	}

	switch {
	case result.HasCritical():
		return 2
	case result.HasWarning():
		return 1
	default:
		return 0
	}
}

func writeReports(out io.Writer, a *app, result *model.InspectionResult) {
	cfg := a.cfg
	dir := outputDir
	if dir == "" {
		dir = cfg.Report.OutputDir
	}
	if dir == "" {
		dir = "./reports"
	}
	selected := formats
	if len(selected) == 0 {
		selected = cfg.Report.Formats
	}

	tz := a.inspector.Timezone()
	base, err := report.OutputBase(dir, cfg.Report.FilenameTemplate, time.Now().In(tz))
	if err != nil {
		a.logger.Error().Err(err).Msg("invalid report filename")
		fmt.Fprintf(os.Stderr, "❌ 报告文件名无效: %v\n", err)
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "📝 生成报告:")
	paths, err := report.NewRegistry(tz, cfg.Report.HTMLTemplate).WriteAll(result, selected, base)
	for _, p := range paths {
		a.logger.Info().Str("path", p).Msg("report generated")
		fmt.Fprintf(out, "   ✅ %s\n", p)
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to generate report")
		fmt.Fprintf(os.Stderr, "   ❌ %v\n", err)
	}
}
