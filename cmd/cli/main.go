package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optcourse/allocation-portal/cmd/cli/commands"
	"github.com/optcourse/allocation-portal/internal/config"
	"github.com/optcourse/allocation-portal/pkg/postgres"
	"github.com/optcourse/allocation-portal/pkg/utils/logging"
)

var (
	env      string
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Course allocation CLI - allocate students to optional courses",
		Long:  `A CLI tool for running, reviewing and publishing optional course allocations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.RunAllocationCmd(app))
	rootCmd.AddCommand(commands.ViewAllocationCmd(app))
	rootCmd.AddCommand(commands.PublishReportCmd(app))
	rootCmd.AddCommand(commands.ListPackagesCmd(app))
	rootCmd.AddCommand(commands.NextWindowCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("rank_horizon", app.Cfg.RankHorizon),
		zap.Int("capacity_overrides", len(app.Cfg.CapacityOverrides)))

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Database = database
	app.Logger.Info("Database initialized successfully")

	return nil
}
