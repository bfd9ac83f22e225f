package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arup-group/batsim/app"
)

var traceFlags struct {
	dir     string
	network string
	plans   string
	events  string
	traces  string
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Pre-process MATSim outputs into traces",
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().StringVarP(&traceFlags.dir, "dir", "d", "tests/data", "MATSim output directory")
	traceCmd.Flags().StringVarP(&traceFlags.network, "network", "n", "output_network.xml", "name of network file")
	traceCmd.Flags().StringVarP(&traceFlags.plans, "population", "p", "output_plans.xml", "name of plans file")
	traceCmd.Flags().StringVarP(&traceFlags.events, "events", "e", "output_events.xml", "name of events file")
	traceCmd.Flags().StringVarP(&traceFlags.traces, "traces", "t", "traces.json", "path to traces file")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	_, err = svc.Trace(
		filepath.Join(traceFlags.dir, traceFlags.network),
		filepath.Join(traceFlags.dir, traceFlags.plans),
		filepath.Join(traceFlags.dir, traceFlags.events),
		traceFlags.traces,
	)
	return err
}
