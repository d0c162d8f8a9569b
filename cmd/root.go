// Package cmd holds the CLI entry points.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "microgrid-sim",
	Short: "Microgrid battery simulator",
	Long: "Simulates a grid-connected microgrid with a degrading battery: " +
		"rule-based dispatch, SoC/SOH transition per step and energy cost accounting.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
