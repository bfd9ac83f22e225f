package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arup-group/batsim/app"
)

var optimiseFlags struct {
	traces  string
	outpath string
}

var optimiseCmd = &cobra.Command{
	Use:   "optimise",
	Short: "Calculate optimal charge events from given traces",
	RunE:  runOptimise,
}

func init() {
	optimiseCmd.Flags().StringVarP(&optimiseFlags.traces, "traces", "t", "traces.json", "path to traces file")
	optimiseCmd.Flags().StringVarP(&optimiseFlags.outpath, "outpath", "o", "outputs", "output directory path")
	rootCmd.AddCommand(optimiseCmd)
}

func runOptimise(cmd *cobra.Command, args []string) error {
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
	defer svc.Close()

	pop, err := svc.LoadTraces(optimiseFlags.traces)
	if err != nil {
		return err
	}
	summary, results, err := svc.Optimise(ctx, pop)
	if err != nil {
		return err
	}
	if err := svc.WriteOutputs(optimiseFlags.outpath, results); err != nil {
		return err
	}
	fmt.Println(summary)
	return nil
}
