package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/socio-africa/backend/internal/database"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/seed"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "socio",
	Short: "Socio admin CLI - database migrations and seeding",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Println("Migrations complete")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [dev|test|clean]",
	Short: "Seed the database with fake data",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := "dev"
		if len(args) > 0 {
			mode = args[0]
		}

		if err := database.Initialize(); err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		seeder := seed.NewSeeder(database.DB)
		switch mode {
		case "dev":
			return seeder.SeedDev()
		case "test":
			return seeder.SeedTest()
		case "clean":
			return seeder.Clean()
		default:
			return fmt.Errorf("unknown seed mode %q (want dev, test, or clean)", mode)
		}
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Initialize(); err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer database.Close()

		if err := database.Health(); err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		fmt.Println("Database OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
