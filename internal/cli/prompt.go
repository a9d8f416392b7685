package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/orchestrator"
)

var (
	promptWorkspaceID string
	generateProvider  string
	generateCount     int
	generateTopicID   string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage monitoring prompts",
}

var promptAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom monitoring prompt",
	RunE:  runPromptAdd,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active monitoring prompts in a workspace",
	RunE:  runPromptList,
}

var promptGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate monitoring prompts with an LLM",
	Long:  `Launch a generation job that asks an LLM for realistic customer questions and stores them as monitoring prompts.`,
	RunE:  runPromptGenerate,
}

func init() {
	promptAddCmd.Flags().StringVarP(&promptWorkspaceID, "workspace", "w", "", "workspace ID (required)")
	promptAddCmd.MarkFlagRequired("workspace")

	promptListCmd.Flags().StringVarP(&promptWorkspaceID, "workspace", "w", "", "workspace ID (required)")
	promptListCmd.MarkFlagRequired("workspace")

	promptGenerateCmd.Flags().StringVarP(&promptWorkspaceID, "workspace", "w", "", "workspace ID (required)")
	promptGenerateCmd.MarkFlagRequired("workspace")
	promptGenerateCmd.Flags().StringVarP(&generateProvider, "provider", "p", "", "LLM provider to generate with (required)")
	promptGenerateCmd.MarkFlagRequired("provider")
	promptGenerateCmd.Flags().IntVarP(&generateCount, "count", "n", 10, "number of prompts to generate")
	promptGenerateCmd.Flags().StringVarP(&generateTopicID, "topic", "t", "", "topic ID to attach the prompts to")

	promptCmd.AddCommand(promptAddCmd)
	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptGenerateCmd)
}

func runPromptAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	workspace, err := sqlDB.GetWorkspace(ctx, promptWorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return fmt.Errorf("workspace not found: %s", promptWorkspaceID)
	}

	reader := bufio.NewReader(os.Stdin)

	text, err := promptRequired(reader, "Prompt text: ")
	if err != nil {
		return err
	}

	prompt := &models.MonitoringPrompt{
		ID:          uuid.New().String(),
		WorkspaceID: workspace.ID,
		RegionID:    workspace.RegionID,
		Text:        text,
		Source:      "custom",
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := sqlDB.CreatePrompt(ctx, prompt); err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	fmt.Println(FormatSuccess("✅ Prompt created!"))
	fmt.Println(FormatLabelValue("ID:", prompt.ID))
	return nil
}

func runPromptList(cmd *cobra.Command, args []string) error {
	prompts, err := sqlDB.GetActivePrompts(context.Background(), promptWorkspaceID, "")
	if err != nil {
		return fmt.Errorf("failed to list prompts: %w", err)
	}

	if len(prompts) == 0 {
		fmt.Println("No active prompts found for this workspace.")
		return nil
	}

	fmt.Println(FormatHeader("📝 Monitoring Prompts"))
	fmt.Println(FormatDim("====================="))
	fmt.Println()

	for _, prompt := range prompts {
		marker := " "
		if prompt.Pinned {
			marker = "📌"
		}
		fmt.Printf("%s %s  %s %s\n", marker, FormatMeta(prompt.ID), FormatValue(prompt.Text), FormatDim("("+prompt.Source+")"))
	}
	fmt.Println()
	fmt.Printf("Total: %s\n", FormatCount(len(prompts)))
	return nil
}

func runPromptGenerate(cmd *cobra.Command, args []string) error {
	job, err := generator.Start(promptWorkspaceID, generateTopicID, generateProvider, generateCount)
	if err != nil {
		return fmt.Errorf("failed to start generation: %w", err)
	}

	fmt.Printf("⏳ Generating %s prompts with %s...\n", FormatCount(generateCount), FormatValue(generateProvider))

	// Poll until the job leaves its running states
	for {
		time.Sleep(time.Second)

		current, ok := generator.Get(job.ID)
		if !ok {
			return fmt.Errorf("generation job disappeared: %s", job.ID)
		}

		switch current.Status {
		case orchestrator.JobCompleted:
			fmt.Println(FormatSuccess(fmt.Sprintf("✅ Generated %d prompts!", len(current.PromptIDs))))
			return nil
		case orchestrator.JobFailed:
			return fmt.Errorf("generation failed: %s", current.Error)
		case orchestrator.JobCancelled:
			return fmt.Errorf("generation was cancelled")
		}
	}
}
