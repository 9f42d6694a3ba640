package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}
		fmt.Fprintln(out, GetVersionInfo())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "只输出版本号")
	rootCmd.AddCommand(versionCmd)
}
