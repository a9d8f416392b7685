package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/logger"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the daily measurement scheduler",
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daily measurement scheduler",
	Long:  `Run the cron scheduler that measures every active workspace on the configured schedule. Blocks until interrupted.`,
	RunE:  runSchedulerStart,
}

var schedulerRunNowCmd = &cobra.Command{
	Use:   "run-now",
	Short: "Run one measurement batch for all active workspaces immediately",
	RunE:  runSchedulerRunNow,
}

func init() {
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunNowCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger.Info("🚀 Starting Brandlens scheduler")

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("✅ Scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("⏸️  Stopping scheduler...")
	sched.Stop()

	logger.Info("✅ Scheduler stopped. Goodbye!")
	return nil
}

func runSchedulerRunNow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return sched.RunAll(ctx)
}
