package attendance

import (
	"context"
	"time"
)

// AttendanceService records punches and feeds the daily aggregation
type AttendanceService interface {
	// RecordTimeIn punches the employee in for today
	RecordTimeIn(ctx context.Context, employeeID string) (Record, error)

	// RecordTimeOut punches the employee out, derives metrics and aggregates them
	RecordTimeOut(ctx context.Context, employeeID string) (Record, error)

	// RetryAggregation brings the daily summary in line with the stored record
	RetryAggregation(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// GetTodayRecord returns nil when the employee has no record today
	GetTodayRecord(ctx context.Context, employeeID string) (*Record, error)

	// ListHistory returns the employee's records, newest first
	ListHistory(ctx context.Context, employeeID string) ([]Record, error)

	// ListByDate returns every record of a date (admin)
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// OverwriteRecord is the administrative correction of a record
	OverwriteRecord(ctx context.Context, req OverwriteRequest) (Record, error)
}
