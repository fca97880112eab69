package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SummaryServiceImpl struct {
	summary.Transactor
	summary.DailySummaryRepository
	summary.BreakdownRepository

	clock     clock.Clock
	publisher summary.Publisher
}

// NewSummaryService builds the daily aggregator. publisher may be nil.
func NewSummaryService(
	tx summary.Transactor,
	summaryRepo summary.DailySummaryRepository,
	breakdownRepo summary.BreakdownRepository,
	clk clock.Clock,
	publisher summary.Publisher,
) summary.SummaryService {
	return &SummaryServiceImpl{
		Transactor:             tx,
		DailySummaryRepository: summaryRepo,
		BreakdownRepository:    breakdownRepo,
		clock:                  clk,
		publisher:              publisher,
	}
}

// errNothingToRetract rolls back the lock row created for a date nobody contributed to
var errNothingToRetract = errors.New("no contribution to retract")

// Apply merges one employee's metrics into the summary of their date. The breakdown row
// of (date, employee) is the idempotency key: the first contribution adds the metrics and
// counts the employee, a correction adds only the difference, and a replay changes nothing.
func (s *SummaryServiceImpl) Apply(ctx context.Context, c summary.Contribution) (summary.DailySummary, error) {
	var (
		updated summary.DailySummary
		changed bool
	)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.LockByDate(ctx, c.Date)
		if err != nil {
			return fmt.Errorf("lock daily summary: %w", err)
		}

		prior, err := s.GetByDateAndEmployee(ctx, c.Date, c.EmployeeID)
		if err != nil {
			return fmt.Errorf("get breakdown: %w", err)
		}

		if err := s.Upsert(ctx, summary.EmployeeDailyBreakdown{
			Date:        c.Date,
			EmployeeID:  c.EmployeeID,
			DisplayName: c.DisplayName,
			Metrics:     c.Metrics,
			RecordedAt:  s.clock.Now(),
		}); err != nil {
			return fmt.Errorf("upsert breakdown: %w", err)
		}

		delta := contributionDelta(prior, c.Metrics)
		if delta.IsZero() {
			updated = current
			return nil
		}

		updated, err = s.AddDelta(ctx, c.Date, delta)
		if err != nil {
			return fmt.Errorf("add delta: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return summary.DailySummary{}, fmt.Errorf("apply contribution of %s on %s: %w",
			c.EmployeeID, c.Date.Format(validator.DateLayout), err)
	}

	slog.Debug("Applied contribution to daily summary",
		"employee_id", c.EmployeeID,
		"date", c.Date.Format(validator.DateLayout),
		"total_employees", updated.TotalEmployees,
		"changed", changed,
	)
	if changed {
		s.publish(updated)
	}
	return updated, nil
}

// Retract removes one employee's contribution and breakdown row from the summary of date.
// Retracting the last contributor removes the summary itself.
func (s *SummaryServiceImpl) Retract(ctx context.Context, date time.Time, employeeID string) error {
	var updated summary.DailySummary

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.LockByDate(ctx, date); err != nil {
			return fmt.Errorf("lock daily summary: %w", err)
		}

		prior, err := s.GetByDateAndEmployee(ctx, date, employeeID)
		if err != nil {
			return fmt.Errorf("get breakdown: %w", err)
		}
		if prior == nil {
			return errNothingToRetract
		}

		delta := negate(prior.Metrics)
		delta.Employees = -1
		updated, err = s.AddDelta(ctx, date, delta)
		if err != nil {
			return fmt.Errorf("add delta: %w", err)
		}

		if err := s.Delete(ctx, date, employeeID); err != nil {
			return fmt.Errorf("delete breakdown: %w", err)
		}

		// a date nobody contributes to has no summary
		if updated.TotalEmployees <= 0 {
			if err := s.DeleteByDate(ctx, date); err != nil {
				return fmt.Errorf("delete daily summary: %w", err)
			}
		}
		return nil
	})
	if errors.Is(err, errNothingToRetract) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("retract contribution of %s on %s: %w",
			employeeID, date.Format(validator.DateLayout), err)
	}

	slog.Info("Retracted contribution from daily summary",
		"employee_id", employeeID,
		"date", date.Format(validator.DateLayout),
	)
	s.publish(updated)
	return nil
}

// DailySummaryFor returns summary.ErrSummaryNotFound when nobody punched out on date
func (s *SummaryServiceImpl) DailySummaryFor(ctx context.Context, date time.Time) (summary.DailySummary, error) {
	return s.GetByDate(ctx, date)
}

func (s *SummaryServiceImpl) ListBreakdown(ctx context.Context, date time.Time) ([]summary.EmployeeDailyBreakdown, error) {
	rows, err := s.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list breakdown: %w", err)
	}
	return rows, nil
}

func (s *SummaryServiceImpl) WeeklyView(ctx context.Context) (summary.WeeklyView, error) {
	recent, err := s.ListRecent(ctx, summary.WeeklyWindow)
	if err != nil {
		return nil, fmt.Errorf("list recent summaries: %w", err)
	}
	return BuildWeeklyView(recent), nil
}

func (s *SummaryServiceImpl) publish(updated summary.DailySummary) {
	if s.publisher != nil {
		s.publisher.PublishSummary(updated)
	}
}

// contributionDelta is what the totals must absorb when metrics replace prior
func contributionDelta(prior *summary.EmployeeDailyBreakdown, metrics attendance.Metrics) summary.Delta {
	if prior == nil {
		delta := add(summary.Delta{}, metrics)
		delta.Employees = 1
		return delta
	}
	return add(negate(prior.Metrics), metrics)
}

func sum(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

func negate(m attendance.Metrics) summary.Delta {
	return summary.Delta{
		Regular:   sum(0, -m.RegularHours),
		Overtime:  sum(0, -m.OvertimeHours),
		NightDiff: sum(0, -m.NightDifferentialHours),
		Late:      sum(0, -m.LateMinutes),
		Undertime: sum(0, -m.UndertimeMinutes),
	}
}

func add(d summary.Delta, m attendance.Metrics) summary.Delta {
	d.Regular = sum(d.Regular, m.RegularHours)
	d.Overtime = sum(d.Overtime, m.OvertimeHours)
	d.NightDiff = sum(d.NightDiff, m.NightDifferentialHours)
	d.Late = sum(d.Late, m.LateMinutes)
	d.Undertime = sum(d.Undertime, m.UndertimeMinutes)
	return d
}
