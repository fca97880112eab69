package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Punch state conflicts
	ErrAlreadyPunchedIn  = errors.New("you have already punched in today")
	ErrAlreadyPunchedOut = errors.New("you have already punched out today")
	ErrNotPunchedIn      = errors.New("you have not punched in yet")

	ErrInvalidInterval = errors.New("time out must be after time in")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)

// IsStateConflict reports whether err is a punch state conflict. These are never retried.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyPunchedIn) ||
		errors.Is(err, ErrAlreadyPunchedOut) ||
		errors.Is(err, ErrNotPunchedIn)
}

// StorageError wraps a failure of the attendance store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AggregationPendingError means the punch-out was persisted but the daily summary was not updated.
// The caller retries the aggregation alone for (EmployeeID, Date).
type AggregationPendingError struct {
	EmployeeID string
	Date       time.Time
	Metrics    Metrics
	Err        error
}

func (e *AggregationPendingError) Error() string {
	return fmt.Sprintf("punch-out recorded for %s on %s but aggregation is pending: %v",
		e.EmployeeID, e.Date.Format("2006-01-02"), e.Err)
}

func (e *AggregationPendingError) Unwrap() error {
	return e.Err
}
