package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/models"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage monitored workspaces",
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new workspace",
	Long:  `Interactive wizard to create a workspace for one monitored brand.`,
	RunE:  runWorkspaceAdd,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workspaces",
	RunE:  runWorkspaceList,
}

var workspaceScoresCmd = &cobra.Command{
	Use:   "scores <workspace-id>",
	Short: "Show live visibility and trust scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceScores,
}

func init() {
	workspaceCmd.AddCommand(workspaceAddCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceScoresCmd)
}

func runWorkspaceAdd(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println(FormatHeader("🏢 New Workspace"))
	fmt.Println(FormatDim("================"))
	fmt.Println()

	name, err := promptRequired(reader, "Workspace name: ")
	if err != nil {
		return err
	}

	brandName, err := promptRequired(reader, "Brand name: ")
	if err != nil {
		return err
	}

	brandWebsite, err := promptOptional(reader, "Brand website (optional): ", "")
	if err != nil {
		return err
	}

	brandDescription, err := promptOptional(reader, "Brand description (optional): ", "")
	if err != nil {
		return err
	}

	competitors, err := promptList(reader, "Competitors (comma-separated, optional): ")
	if err != nil {
		return err
	}

	available := llmRegistry.Names()
	if len(available) == 0 {
		return fmt.Errorf("no LLM providers configured. Add API keys to your config first")
	}

	providers, err := promptList(reader, fmt.Sprintf("Providers to measure with (comma-separated) [%s]: ", strings.Join(available, ",")))
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		providers = available
	}
	for _, p := range providers {
		if _, ok := llmRegistry.Get(p); !ok {
			return fmt.Errorf("provider %s is not configured (available: %s)", p, strings.Join(available, ", "))
		}
	}

	language, err := promptWithRetry(reader, "Language code [EN]: ", func(input string) (string, error) {
		if input == "" {
			return "EN", nil
		}
		return validateLanguageCode(input)
	})
	if err != nil {
		return err
	}

	workspace := &models.Workspace{
		ID:               uuid.New().String(),
		Name:             name,
		BrandName:        brandName,
		BrandWebsite:     brandWebsite,
		BrandDescription: brandDescription,
		Competitors:      competitors,
		Providers:        providers,
		Language:         language,
		Active:           true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := sqlDB.CreateWorkspace(context.Background(), workspace); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	fmt.Println()
	fmt.Println(FormatSuccess("✅ Workspace created!"))
	fmt.Println(FormatLabelValue("ID:", workspace.ID))
	fmt.Println(FormatLabelValue("Brand:", workspace.BrandName))
	fmt.Println(FormatLabelValue("Providers:", strings.Join(workspace.Providers, ", ")))
	return nil
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	workspaces, err := sqlDB.ListWorkspaces(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces found. Create one with 'brandlens workspace add'.")
		return nil
	}

	fmt.Println(FormatHeader("🏢 Workspaces"))
	fmt.Println(FormatDim("============="))
	fmt.Println()

	for _, workspace := range workspaces {
		status := FormatSuccess("active")
		if !workspace.Active {
			status = FormatDim("inactive")
		}
		fmt.Printf("%s  %s (%s) [%s]\n", FormatMeta(workspace.ID), FormatValue(workspace.Name), workspace.BrandName, status)
	}
	fmt.Println()
	fmt.Printf("Total: %s\n", FormatCount(len(workspaces)))
	return nil
}

func runWorkspaceScores(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	workspace, err := sqlDB.GetWorkspace(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return fmt.Errorf("workspace not found: %s", args[0])
	}

	scores, err := scorer.Score(ctx, workspace)
	if err != nil {
		return fmt.Errorf("failed to compute scores: %w", err)
	}

	fmt.Println(FormatHeader(fmt.Sprintf("📈 Scores for %s", workspace.BrandName)))
	fmt.Println(FormatDim("=========================="))
	fmt.Println()
	fmt.Println(FormatLabelValue("Visibility score:", fmt.Sprintf("%d/100", scores.VisibilityScore)))
	fmt.Println(FormatLabelValue("Trust score:", fmt.Sprintf("%d/100", scores.TrustScore)))
	fmt.Println(FormatLabelValue("Share of voice:", fmt.Sprintf("%d%%", scores.ShareOfVoice)))
	fmt.Println(FormatLabelValue("Mention rate:", fmt.Sprintf("%.1f%%", scores.MentionRate*100)))
	fmt.Println(FormatLabelValue("Sample size:", fmt.Sprintf("%d responses", scores.SampleSize)))
	return nil
}
