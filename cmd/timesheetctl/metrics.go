package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/service/timesheet"
	"github.com/spf13/cobra"
)

func newMetricsCommand() *cobra.Command {
	var (
		inStr, outStr    string
		startStr, endStr string
		capHours         float64
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Compute shift metrics for one punch interval",
		Example: "  timesheetctl metrics --in 2024-01-15T08:00:00Z --out 2024-01-15T17:00:00Z\n" +
			"  timesheetctl metrics --in 2024-01-15T21:00:00+08:00 --out 2024-01-16T06:00:00+08:00 --start 22:00 --end 06:00",
		RunE: func(cmd *cobra.Command, args []string) error {
			timeIn, err := time.Parse(time.RFC3339, inStr)
			if err != nil {
				return fmt.Errorf("invalid --in: %w", err)
			}
			timeOut, err := time.Parse(time.RFC3339, outStr)
			if err != nil {
				return fmt.Errorf("invalid --out: %w", err)
			}
			schedule, err := employee.NewShiftSchedule(startStr, endStr, capHours)
			if err != nil {
				return err
			}

			metrics, err := timesheet.NewCalculator().Metrics(timeIn, timeOut, schedule)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(attendance.MetricsResponse{
				RegularHours:           metrics.RegularHours,
				OvertimeHours:          metrics.OvertimeHours,
				LateMinutes:            metrics.LateMinutes,
				UndertimeMinutes:       metrics.UndertimeMinutes,
				NightDifferentialHours: metrics.NightDifferentialHours,
			})
		},
	}

	cmd.Flags().StringVar(&inStr, "in", "", "Punch-in timestamp (RFC3339)")
	cmd.Flags().StringVar(&outStr, "out", "", "Punch-out timestamp (RFC3339)")
	cmd.Flags().StringVar(&startStr, "start", "09:00", "Scheduled shift start (HH:MM)")
	cmd.Flags().StringVar(&endStr, "end", "18:00", "Scheduled shift end (HH:MM)")
	cmd.Flags().Float64Var(&capHours, "cap", employee.DefaultRegularCapHours, "Regular hours cap")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
