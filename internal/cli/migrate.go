package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/db/sqlite"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Run database migrations against the SQL store.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (default internal/db/migrations)")
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	store, ok := sqlDB.(*sqlite.SQLite)
	if !ok {
		return fmt.Errorf("migrations require a SQLite store")
	}

	if err := db.RunMigrations(context.Background(), store.DB(), migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations completed successfully!")
	return nil
}
