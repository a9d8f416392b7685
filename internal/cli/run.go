package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/orchestrator"
)

var (
	runWorkspaceID string
	runRegionID    string
	runForce       bool
	runSamples     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a measurement batch for one workspace",
	Long: `Measure every active monitoring prompt in a workspace against its
configured LLM providers and write today's KPI snapshots. Prompts whose
snapshot for today already exists are skipped unless --force is given.`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&runWorkspaceID, "workspace", "w", "", "workspace ID (required)")
	runCmd.MarkFlagRequired("workspace")
	runCmd.Flags().StringVarP(&runRegionID, "region", "r", "", "narrow the run to one region")
	runCmd.Flags().BoolVarP(&runForce, "force", "f", false, "recompute snapshots that already exist for today")
	runCmd.Flags().IntVarP(&runSamples, "samples", "n", 0, "samples per prompt and provider (default 3)")
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C stops after the in-flight prompt finishes
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n⏸️  Cancelling after current prompt...")
		cancel()
	}()

	fmt.Printf("%s🔄 Starting measurement run%s\n", InfoStyle, Reset)
	fmt.Printf("%s===========================%s\n", DimStyle, Reset)
	fmt.Println()

	sink := func(event orchestrator.Event) {
		switch event.Type {
		case orchestrator.EventStart:
			if event.PromptText != "" {
				fmt.Printf("%s📝 %s%s\n", InfoStyle, FormatValue(event.PromptText), Reset)
			}
		case orchestrator.EventSuccess:
			if event.Snapshot != nil {
				fmt.Printf("%s✅ visibility=%d mention_rate=%.0f%%%s\n",
					SuccessStyle, event.Snapshot.VisibilityScore, event.Snapshot.MentionRate*100, Reset)
			} else {
				fmt.Printf("%s✅ Success%s\n", SuccessStyle, Reset)
			}
		case orchestrator.EventSkipped:
			fmt.Printf("%s⏭️  Skipped (%s)%s\n", DimStyle, event.Reason, Reset)
		case orchestrator.EventError:
			fmt.Printf("%s❌ %s%s\n", ErrorStyle, event.Message, Reset)
		case orchestrator.EventComplete:
			if event.Summary != nil {
				fmt.Println()
				fmt.Printf("%s🎉 Run complete:%s %s processed, %s skipped, %s errors\n",
					SuccessStyle, Reset,
					FormatCount(event.Summary.Processed),
					FormatCount(event.Summary.Skipped),
					FormatCount(event.Summary.Errors))
			}
		}
	}

	_, err := orch.Run(ctx, orchestrator.RunOptions{
		WorkspaceID: runWorkspaceID,
		RegionID:    runRegionID,
		Force:       runForce,
		NumSamples:  runSamples,
	}, sink)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	return nil
}
