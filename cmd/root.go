package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arup-group/batsim/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "batsim",
	Short: "Battery simulation for transport models",
	Long: `batsim estimates the temporal, spatial and demographic distribution of
EV charging demand for a synthetic population produced by an upstream
agent-based transport simulator.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}
