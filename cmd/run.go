package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arup-group/batsim/app"
	"github.com/arup-group/batsim/infra/logger"
)

var runFlags struct {
	dir     string
	network string
	plans   string
	events  string
	outpath string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: trace, optimise and report",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.dir, "dir", "d", "tests/data", "MATSim output directory")
	runCmd.Flags().StringVarP(&runFlags.network, "network", "n", "output_network.xml", "name of network file")
	runCmd.Flags().StringVarP(&runFlags.plans, "population", "p", "output_plans.xml", "name of plans file")
	runCmd.Flags().StringVarP(&runFlags.events, "events", "e", "output_events.xml", "name of events file")
	runCmd.Flags().StringVarP(&runFlags.outpath, "outpath", "o", "outputs", "output directory path")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if err := os.MkdirAll(runFlags.outpath, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	pop, err := svc.Trace(
		filepath.Join(runFlags.dir, runFlags.network),
		filepath.Join(runFlags.dir, runFlags.plans),
		filepath.Join(runFlags.dir, runFlags.events),
		filepath.Join(runFlags.outpath, "traces.json"),
	)
	if err != nil {
		return err
	}
	summary, results, err := svc.Optimise(ctx, pop)
	if err != nil {
		return err
	}
	if err := svc.WriteOutputs(runFlags.outpath, results); err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}
