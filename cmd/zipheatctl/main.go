// Command zipheatctl inspects the choropleth configuration offline and
// verifies a running server.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "zipheatctl",
		Short:         "CLI tool for the ZIP code price change map",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config (overrides ZIPHEAT_CONFIG)")

	rootCmd.AddCommand(newColorCmd(&configFile))
	rootCmd.AddCommand(newLegendCmd(&configFile))
	rootCmd.AddCommand(newTooltipCmd(&configFile))
	rootCmd.AddCommand(newVerifyCmd(&configFile))
	return rootCmd
}
