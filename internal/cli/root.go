package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/db/mongodb"
	"github.com/brandlens/brandlens/internal/db/sqlite"
	"github.com/brandlens/brandlens/internal/embeddings"
	"github.com/brandlens/brandlens/internal/kpi"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/llm/anthropic"
	"github.com/brandlens/brandlens/internal/llm/openai"
	"github.com/brandlens/brandlens/internal/llm/perplexity"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/models"
	"github.com/brandlens/brandlens/internal/orchestrator"
	"github.com/brandlens/brandlens/internal/scheduler"
	"github.com/brandlens/brandlens/internal/score"
)

var (
	cfgFile     string
	logLevel    string
	cfg         *config.Config
	sqlDB       db.SQLDatabase
	factStore   db.NoSQLDatabase
	llmRegistry *llm.Registry
	aligner     kpi.Aligner
	orch        *orchestrator.Orchestrator
	generator   *orchestrator.Generator
	scorer      *score.Scorer
	sched       *scheduler.Scheduler
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "brandlens",
	Short: "Brand visibility tracker for LLM answers",
	Long: `Brandlens measures how visible a brand is inside LLM answers.

It probes monitoring prompts against multiple LLM providers, extracts
mention, prominence, sentiment and citation signals from the responses,
and rolls them up into daily per-prompt and per-topic KPI snapshots plus
live workspace visibility and trust scores.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		logger.Init(logger.ParseLogLevel(logLevel), nil)

		// Load configuration
		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'brandlens init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		sqlDB, err = sqlite.New(&models.Config{
			Provider: cfg.SQLDatabase.Provider,
			URI:      cfg.SQLDatabase.URI,
			Database: cfg.SQLDatabase.Database,
			Options:  cfg.SQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create SQL store: %w", err)
		}
		if err := sqlDB.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to SQL store: %w", err)
		}

		factStore, err = mongodb.New(&models.Config{
			Provider: cfg.NoSQLDatabase.Provider,
			URI:      cfg.NoSQLDatabase.URI,
			Database: cfg.NoSQLDatabase.Database,
			Options:  cfg.NoSQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create fact store: %w", err)
		}
		if err := factStore.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to fact store: %w", err)
		}

		// Register every provider with a configured key
		llmRegistry = llm.NewRegistry()
		if cfg.Providers.OpenAIAPIKey != "" {
			llmRegistry.Register(openai.New(cfg.Providers.OpenAIAPIKey))
		}
		if cfg.Providers.AnthropicAPIKey != "" {
			llmRegistry.Register(anthropic.New(cfg.Providers.AnthropicAPIKey, ""))
		}
		if cfg.Providers.PerplexityAPIKey != "" {
			llmRegistry.Register(perplexity.New(cfg.Providers.PerplexityAPIKey))
		}

		// Alignment scoring is optional and degrades to a nil signal
		if cfg.Providers.GeminiAPIKey != "" {
			aligner, err = embeddings.New(ctx, cfg.Providers.GeminiAPIKey)
			if err != nil {
				logger.Warning("Embedding service unavailable, alignment scoring disabled: %v", err)
				aligner = nil
			}
		}

		orch = orchestrator.New(sqlDB, factStore, llmRegistry, aligner)
		generator = orchestrator.NewGenerator(sqlDB, llmRegistry)
		scorer = score.NewScorer(factStore)
		sched = scheduler.New(sqlDB, orch, cfg.Scheduler.CronExpr)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if factStore != nil {
			factStore.Disconnect(ctx)
		}
		if sqlDB != nil {
			return sqlDB.Disconnect(ctx)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brandlens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warning, error)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(serveCmd)
}
