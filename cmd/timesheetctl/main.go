package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/app"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "timesheetctl",
		Short:         "Operate the punch-in/out timesheet engine",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMetricsCommand(),
		newWeeklyExportCommand(),
		newReconcileCommand(),
		newMigrateCommand(),
		newEmployeeCommand(),
		newTokenCommand(),
	)
	return root
}

// loadApp loads configuration from the environment and wires the configured store
func loadApp(ctx context.Context) (*config.Config, *app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(ctx, cfg, clock.New())
	if err != nil {
		return nil, nil, fmt.Errorf("initialize application: %w", err)
	}
	return cfg, a, nil
}
