package summary

import (
	"context"
	"time"
)

// Aggregator is the write side used by the punch recorder
type Aggregator interface {
	// Apply merges one employee's metrics into the summary of their date
	Apply(ctx context.Context, c Contribution) (DailySummary, error)

	// Retract removes one employee's contribution from the summary of date
	Retract(ctx context.Context, date time.Time, employeeID string) error
}

type SummaryService interface {
	Aggregator

	// DailySummaryFor returns ErrSummaryNotFound when nobody punched out that date
	DailySummaryFor(ctx context.Context, date time.Time) (DailySummary, error)

	ListBreakdown(ctx context.Context, date time.Time) ([]EmployeeDailyBreakdown, error)

	WeeklyView(ctx context.Context) (WeeklyView, error)
}

// Publisher receives summaries after each committed change
type Publisher interface {
	PublishSummary(s DailySummary)
}
