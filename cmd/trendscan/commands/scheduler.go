package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scans on a recurring cron schedule",
	Long: `Starts the scheduler and fires a full scan on the configured cron
spec (seconds field included). The ticker universe file is re-read on
every firing, so it can be edited between runs.

Example:
  go run ./cmd/trendscan scheduler
  go run ./cmd/trendscan scheduler --schedule "0 0 22 * * MON-FRI"`,
	RunE: runScheduler,
}

var schedulerSpec string

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerSpec, "schedule", "", "cron spec (default from SCAN_SCHEDULE)")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	s, err := buildStack(false)
	if err != nil {
		return err
	}
	defer s.close()

	tickersFile := s.cfg.Scan.TickersFile
	if tickersFile == "" {
		return fmt.Errorf("scheduler requires SCAN_TICKERS_FILE")
	}

	spec := schedulerSpec
	if spec == "" {
		spec = s.cfg.Scan.Schedule
	}

	sched := scheduler.New(s.logger)
	job := scheduler.NewScanJob(s.pipeline, func() ([]string, error) {
		return readTickersFile(tickersFile)
	}, spec)

	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutdown signal received")
	return nil
}
