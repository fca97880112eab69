package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// At most one record exists per (employeeID, date).
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// RecordTimeIn creates the record or sets time_in on a record without one.
	// Returns ErrAlreadyPunchedIn when time_in is already set.
	RecordTimeIn(ctx context.Context, update TimeInUpdate) (Record, error)

	// RecordTimeOut sets time_out and metrics on an open record.
	// Returns ErrNotPunchedIn when there is no time_in and ErrAlreadyPunchedOut when time_out is set.
	RecordTimeOut(ctx context.Context, update TimeOutUpdate) (Record, error)

	// Overwrite replaces time_in, time_out and metrics, creating the record when absent
	Overwrite(ctx context.Context, update OverwriteUpdate) (Record, error)

	// List returns records matching filter, newest date first
	List(ctx context.Context, filter RecordFilter) ([]Record, error)
}
