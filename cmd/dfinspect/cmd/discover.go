package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dfinspect/internal/service"
)

var discoverWrite bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "发现监控项",
	Long: `根据当前文件系统与分组配置发现每台主机的监控项。

使用 --write 将结果写入 discovery.autochecks_dir，之后的巡检只评估快照中的监控项，
快照中存在但数据中消失的监控项会被报告为 UNKNOWN。`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDiscover())
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVarP(&discoverWrite, "write", "w", false, "写入监控项快照")
}

func runDiscover() int {
	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		return 1
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 初始化失败: %v\n", err)
		return 1
	}
	defer a.Close()

	results, err := service.NewDiscoveryRunner(cfg, a.collector, logger).Run(ctx, discoverWrite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 发现失败: %v\n", err)
		return 1
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s: ❌ %v\n", titleStyle.Render(r.Host), r.Err)
			continue
		}
		fmt.Printf("%s: %d 个监控项\n", titleStyle.Render(r.Host), len(r.Items))
		for _, item := range r.Items {
			fmt.Printf("   %-10s %s\n", item.Kind, item.Name)
		}
	}
	if discoverWrite {
		fmt.Printf("\n✅ 快照已写入 %s\n", cfg.Discovery.AutochecksDir)
	}
	if failed > 0 {
		return 1
	}
	return 0
}
