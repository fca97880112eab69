package summary

import (
	"context"
	"time"
)

// Transactor runs fn in one store transaction. Repositories called with the ctx passed to fn join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type DailySummaryRepository interface {
	// LockByDate creates an empty summary for date when absent and locks it until the transaction ends
	LockByDate(ctx context.Context, date time.Time) (DailySummary, error)

	// AddDelta adds delta to the totals of date and returns the updated summary
	AddDelta(ctx context.Context, date time.Time, delta Delta) (DailySummary, error)

	// GetByDate returns ErrSummaryNotFound when absent
	GetByDate(ctx context.Context, date time.Time) (DailySummary, error)

	// DeleteByDate removes the summary of date when it has no contributors left
	DeleteByDate(ctx context.Context, date time.Time) error

	// ListRecent returns up to limit summaries, newest date first
	ListRecent(ctx context.Context, limit int) ([]DailySummary, error)
}

type BreakdownRepository interface {
	// GetByDateAndEmployee returns nil, nil when absent
	GetByDateAndEmployee(ctx context.Context, date time.Time, employeeID string) (*EmployeeDailyBreakdown, error)

	// Upsert replaces the row for (Date, EmployeeID)
	Upsert(ctx context.Context, row EmployeeDailyBreakdown) error

	Delete(ctx context.Context, date time.Time, employeeID string) error

	// ListByDate returns the rows of date ordered by display name
	ListByDate(ctx context.Context, date time.Time) ([]EmployeeDailyBreakdown, error)
}
