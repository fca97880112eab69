package main

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/export"
	"github.com/spf13/cobra"
)

func newWeeklyExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "weekly-export",
		Short: "Write the weekly summary view to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.SummaryService.WeeklyView(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			if err := export.WriteWeekly(f, view); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d days to %s\n", len(view), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "weekly-summary.xlsx", "Destination file")
	return cmd
}
