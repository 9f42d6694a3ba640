package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dfinspect/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "以 MCP 服务方式运行（stdio）",
	Long:  "通过标准输入输出提供 MCP 工具：list_hosts、check_host、inspect_all。日志写入标准错误。",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	a, err := newApp(context.Background(), cfg, logger, true)
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}
	defer a.Close()

	logger.Info().Msg("serving MCP on stdio")
	return mcpserver.New(a.inspector, a.collector, Version, logger).ServeStdio()
}
