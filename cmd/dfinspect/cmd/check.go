package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dfinspect/internal/model"
)

var (
	checkHost    string
	checkNoStore bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "检查单台主机",
	Long: `评估一台主机的所有监控项并逐项输出结果。

退出码: 0 OK，1 WARN，2 CRIT，3 UNKNOWN。

示例:
  dfinspect check -c config.yaml --host web-01`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCheck())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkHost, "host", "", "主机标识或主机名（本机数据源可省略）")
	checkCmd.Flags().BoolVar(&checkNoStore, "no-store", false, "不读写趋势存储")
}

func runCheck() int {
	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		return 3
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger, !checkNoStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 初始化失败: %v\n", err)
		return 3
	}
	defer a.Close()

	host, err := resolveHost(ctx, a, checkHost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 3
	}

	result := a.inspector.InspectHost(ctx, host)
	printHost(os.Stdout, result)

	if result.Status == model.HostStatusSkipped {
		return 3
	}
	return exitCode(result.WorstState())
}

// resolveHost finds name among the configured hosts. An empty name selects
// the only host, which is always the case for the local source.
func resolveHost(ctx context.Context, a *app, name string) (*model.HostMeta, error) {
	hosts, err := a.collector.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取主机列表失败: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		if len(hosts) == 1 {
			return hosts[0], nil
		}
		return nil, fmt.Errorf("共有 %d 台主机，请使用 --host 指定", len(hosts))
	}
	for _, h := range hosts {
		if h.Ident == name || h.Hostname == name {
			return h, nil
		}
	}
	// hosts outside the inventory can still be queried by ident
	return &model.HostMeta{Ident: name, Hostname: model.CleanIdent(name)}, nil
}
