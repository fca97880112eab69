package main

import (
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/cron"
	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	var lookbackDays int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-apply recent attendance records to their daily summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if lookbackDays <= 0 {
				lookbackDays = cfg.Reconcile.LookbackDays
			}

			jobs := cron.NewReconcileJobs(a.AttendanceRepo, a.AttendanceService, a.Clock, a.Location, lookbackDays)
			scheduler := cron.NewScheduler(cmd.Context())
			jobs.RegisterJobs(scheduler, cfg.Reconcile.Interval)
			if err := scheduler.RunOnce(cmd.Context()); err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled the last %d days\n", lookbackDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&lookbackDays, "days", 0, "Days to look back (defaults to RECONCILE_LOOKBACK_DAYS)")
	return cmd
}
