package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// ReconcileJobs re-applies recent records to their daily summaries so that punch-outs left with a
// pending aggregation eventually land. Re-applying a consistent record changes nothing.
type ReconcileJobs struct {
	attendanceRepo attendance.AttendanceRepository
	attendanceSvc  attendance.AttendanceService
	clock          clock.Clock
	location       *time.Location
	lookbackDays   int
}

func NewReconcileJobs(
	attendanceRepo attendance.AttendanceRepository,
	attendanceSvc attendance.AttendanceService,
	clk clock.Clock,
	location *time.Location,
	lookbackDays int,
) *ReconcileJobs {
	if location == nil {
		location = time.UTC
	}
	return &ReconcileJobs{
		attendanceRepo: attendanceRepo,
		attendanceSvc:  attendanceSvc,
		clock:          clk,
		location:       location,
		lookbackDays:   lookbackDays,
	}
}

func (j *ReconcileJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("reconcile_daily_summaries", interval, j.ReconcileDailySummaries)
}

// ReconcileDailySummaries retries aggregation for every record dated within the lookback window
func (j *ReconcileJobs) ReconcileDailySummaries(ctx context.Context) error {
	today := attendance.DateOf(j.clock.Now().In(j.location))
	start := today.AddDate(0, 0, -j.lookbackDays)

	records, err := j.attendanceRepo.List(ctx, attendance.RecordFilter{
		StartDate: &start,
		EndDate:   &today,
	})
	if err != nil {
		return fmt.Errorf("list records to reconcile: %w", err)
	}

	var failed []error
	for _, r := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.attendanceSvc.RetryAggregation(ctx, r.EmployeeID, r.Date); err != nil {
			slog.Warn("Cron: reconcile failed for record",
				"employee_id", r.EmployeeID,
				"date", r.Date.Format(validator.DateLayout),
				"error", err,
			)
			failed = append(failed, err)
		}
	}

	slog.Info("Cron: reconciled daily summaries",
		"from", start.Format(validator.DateLayout),
		"to", today.Format(validator.DateLayout),
		"records", len(records),
		"failed", len(failed),
	)
	return errors.Join(failed...)
}
