package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arup-group/batsim/app"
)

var dryrunFlags struct {
	traces string
	output string
}

var dryrunCmd = &cobra.Command{
	Use:   "dryrun",
	Short: "Resolve agent capabilities without simulating",
	RunE:  runDryrun,
}

func init() {
	dryrunCmd.Flags().StringVarP(&dryrunFlags.traces, "traces", "t", "traces.json", "path to traces file")
	dryrunCmd.Flags().StringVarP(&dryrunFlags.output, "output", "o", "config.csv", "output file path")
	rootCmd.AddCommand(dryrunCmd)
}

func runDryrun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	pop, err := svc.LoadTraces(dryrunFlags.traces)
	if err != nil {
		return err
	}
	return svc.DryRun(pop, dryrunFlags.output)
}
