package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dfinspect/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证配置文件",
	Long:  "加载并验证配置文件与查询定义文件，检查格式、必填字段、阈值顺序和分组定义。",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 配置验证失败: %v\n", err)
		os.Exit(1)
	}
	if _, err := cfg.Params(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 阈值配置无效: %v\n", err)
		os.Exit(1)
	}

	if cfg.Inspection.Source == config.SourceVictoriaMetrics {
		queries, err := config.LoadQueries(cfg.Datasources.VictoriaMetrics.QueriesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ 查询定义验证失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ 查询定义: %s (%d 个查询)\n", cfg.Datasources.VictoriaMetrics.QueriesFile, config.CountActiveQueries(queries))
	}

	fmt.Printf("✅ 配置文件验证通过: %s\n", cfgFile)
}
