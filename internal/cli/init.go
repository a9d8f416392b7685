package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/db/mongodb"
	"github.com/brandlens/brandlens/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize brandlens configuration",
	Long:  `Interactive wizard to set up brandlens configuration including databases, provider API keys and the daily schedule.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to Brandlens Setup")
	fmt.Println("=============================")
	fmt.Println()

	// Check if config already exists
	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	// SQL store configuration
	fmt.Println("\n📊 SQL Store Configuration (workspaces, prompts, snapshots)")
	fmt.Println("------------------------------------------------------------")

	sqlPath, err := promptOptional(reader, "SQLite database path [brandlens.db]: ", "brandlens.db")
	if err != nil {
		return err
	}
	cfg.SQLDatabase.URI = sqlPath

	// Fact store configuration
	fmt.Println("\n📦 Fact Store Configuration (raw results, citations)")
	fmt.Println("------------------------------------------------------")

	mongoURI, err := promptOptional(reader, "MongoDB URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.URI = mongoURI

	mongoName, err := promptOptional(reader, "MongoDB database name [brandlens]: ", "brandlens")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.Database = mongoName

	// Test fact store connection
	fmt.Println("\n🔌 Testing fact store connection...")
	testDB, dbErr := mongodb.New(&models.Config{
		Provider: cfg.NoSQLDatabase.Provider,
		URI:      cfg.NoSQLDatabase.URI,
		Database: cfg.NoSQLDatabase.Database,
	})
	if dbErr != nil {
		return fmt.Errorf("failed to create fact store: %w", dbErr)
	}

	ctx := context.Background()
	if err := testDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to MongoDB: %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer testDB.Disconnect(ctx)

	fmt.Println("✅ Fact store connection successful!")

	// Provider API keys
	fmt.Println("\n🤖 LLM Provider API Keys (press Enter to skip a provider)")
	fmt.Println("----------------------------------------------------------")

	if cfg.Providers.OpenAIAPIKey, err = promptOptional(reader, "OpenAI API key: ", ""); err != nil {
		return err
	}
	if cfg.Providers.AnthropicAPIKey, err = promptOptional(reader, "Anthropic API key: ", ""); err != nil {
		return err
	}
	if cfg.Providers.PerplexityAPIKey, err = promptOptional(reader, "Perplexity API key: ", ""); err != nil {
		return err
	}
	if cfg.Providers.GeminiAPIKey, err = promptOptional(reader, "Gemini API key (for alignment embeddings): ", ""); err != nil {
		return err
	}

	if cfg.Providers.OpenAIAPIKey == "" && cfg.Providers.AnthropicAPIKey == "" && cfg.Providers.PerplexityAPIKey == "" {
		fmt.Println("⚠️  No measurement provider configured. Add at least one API key before running measurements.")
	}

	// API server
	fmt.Println("\n🌐 API Server")
	fmt.Println("-------------")

	port := cfg.Server.Port
	if _, err = promptWithRetry(reader, fmt.Sprintf("API server port [%d]: ", port), func(input string) (string, error) {
		if input == "" {
			return "", nil
		}
		n, numErr := validateNumber(input, 1, 65535)
		if numErr != nil {
			return "", numErr
		}
		port = n
		return input, nil
	}); err != nil {
		return err
	}
	cfg.Server.Port = port

	// Scheduler
	fmt.Println("\n⏰ Daily Measurement Schedule")
	fmt.Println("-----------------------------")

	cronExpr, err := promptWithRetry(reader, "Cron expression [0 6 * * *]: ", func(input string) (string, error) {
		if input == "" {
			return "0 6 * * *", nil
		}
		return validateCronExpression(input)
	})
	if err != nil {
		return err
	}
	cfg.Scheduler.CronExpr = cronExpr

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	// Summary
	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("SQL store: %s\n", cfg.SQLDatabase.URI)
	fmt.Printf("Fact store: %s/%s\n", cfg.NoSQLDatabase.URI, cfg.NoSQLDatabase.Database)
	fmt.Printf("OpenAI key: %s\n", maskSensitiveData(cfg.Providers.OpenAIAPIKey, "*"))
	fmt.Printf("Anthropic key: %s\n", maskSensitiveData(cfg.Providers.AnthropicAPIKey, "*"))
	fmt.Printf("Perplexity key: %s\n", maskSensitiveData(cfg.Providers.PerplexityAPIKey, "*"))
	fmt.Printf("Gemini key: %s\n", maskSensitiveData(cfg.Providers.GeminiAPIKey, "*"))
	fmt.Printf("API port: %d\n", cfg.Server.Port)
	fmt.Printf("Schedule: %s\n", cfg.Scheduler.CronExpr)
	fmt.Println()
	fmt.Println("🎉 Setup complete!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Apply migrations: brandlens migrate up")
	fmt.Println("  2. Create a workspace: brandlens workspace add")
	fmt.Println("  3. Add monitoring prompts: brandlens prompt add")
	fmt.Println("  4. Run a measurement: brandlens run --workspace <id>")

	return nil
}
