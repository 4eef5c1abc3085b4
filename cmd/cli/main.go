package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clinicshift/shift-scheduler/cmd/cli/commands"
	"github.com/clinicshift/shift-scheduler/internal/config"
	"github.com/clinicshift/shift-scheduler/pkg/core/services"
	"github.com/clinicshift/shift-scheduler/pkg/db"
	"github.com/clinicshift/shift-scheduler/pkg/postgres"
	"github.com/clinicshift/shift-scheduler/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	commands.AppContext
	closeStore func()
}

var (
	env     string
	month   string
	verbose bool
	app     = &App{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cli",
		Short:        "Clinic shift scheduler - plan the monthly staff schedule",
		Long:         `A CLI tool for assigning clinic staff to sessions, checking capacity and skills, and reporting missing shifts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&month, "start-month", "m", "", "Scheduling month to open, YYYY-MM (defaults to next month)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	commands.AddAll(rootCmd, &app.AppContext, os.Stdin)

	err := rootCmd.Execute()
	// Also after a failed command, so the store is always closed
	shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, storage and the workspace
func initApp() error {
	app.Ctx = context.Background()
	app.Now = time.Now
	app.Out = commands.NewPrinter(os.Stdout)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	app.Logger, err = logging.InitLogger(env, cfg.LogsDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env), zap.String("storage", cfg.Storage))

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	closures, err := cfg.ClosureCalendar()
	if err != nil {
		return fmt.Errorf("failed to parse closures: %w", err)
	}

	var scheduling time.Time
	if month != "" {
		scheduling, err = commands.ParseMonth(month, app.Now())
		if err != nil {
			return err
		}
	}

	app.Workspace, err = services.Open(app.Ctx, services.Options{
		Store:           store,
		Logger:          app.Logger,
		RetentionDays:   cfg.RetentionDays,
		HistoryCapacity: cfg.HistoryCapacity,
		Month:           scheduling,
		Closures:        closures,
		Locale:          cfg.Locale(),
		Now:             app.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to open workspace: %w", err)
	}
	app.Logger.Debug("Workspace ready",
		zap.Int("employees", len(app.Workspace.State().Employees)),
		zap.Int("schedule_entries", len(app.Workspace.State().Schedule)),
		zap.Int("closures", closures.Len()))

	return nil
}

// openStore connects the configured key-value backend
func openStore(cfg *config.Config) (db.StateStore, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		app.Logger.Info("Connecting to postgres")
		pg, err := postgres.NewDB(app.Ctx, cfg.PostgresURL, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(app.Ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.closeStore = pg.Close
		return pg, nil

	default:
		app.Logger.Info("Opening database", zap.String("path", cfg.DataDir))
		badgerDB, err := db.Open(db.Options{Path: cfg.DataDir})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.closeStore = func() {
			if err := badgerDB.Close(); err != nil {
				app.Logger.Error("Failed to close database", zap.Error(err))
			}
		}
		return badgerDB, nil
	}
}

// shutdown saves the present state and releases the store
func shutdown() {
	if app.Workspace != nil {
		if err := app.Workspace.Save(app.Ctx); err != nil {
			app.Logger.Error("Failed to save state on exit", zap.Error(err))
		}
	}
	if app.closeStore != nil {
		app.closeStore()
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
