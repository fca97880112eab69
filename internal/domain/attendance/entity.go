package attendance

import (
	"time"
)

// Metrics are derived once a record is punched out. Hours and minutes carry two decimals.
type Metrics struct {
	RegularHours           float64
	OvertimeHours          float64
	LateMinutes            float64
	UndertimeMinutes       float64
	NightDifferentialHours float64
}

// Record is one employee's punch pair for one calendar date
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar date, midnight UTC
	TimeIn     *time.Time
	TimeOut    *time.Time
	Metrics    *Metrics // set iff TimeOut is set
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the employee punched in but not out
func (r Record) IsOpen() bool {
	return r.TimeIn != nil && r.TimeOut == nil
}

// IsFinalized reports whether the record contributes to the daily summary
func (r Record) IsFinalized() bool {
	return r.TimeOut != nil && r.Metrics != nil
}

// DateOf returns the calendar date of t (in t's location) as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeInUpdate may only set time_in on the (EmployeeID, Date) record, creating it when absent
type TimeInUpdate struct {
	EmployeeID string
	Date       time.Time
	TimeIn     time.Time
}

// TimeOutUpdate may only set time_out and the metrics, and only while time_out is unset
type TimeOutUpdate struct {
	EmployeeID string
	Date       time.Time
	TimeOut    time.Time
	Metrics    Metrics
}

// OverwriteUpdate is the administrative overwrite. TimeOut and Metrics are nil together.
type OverwriteUpdate struct {
	EmployeeID string
	Date       time.Time
	TimeIn     time.Time
	TimeOut    *time.Time
	Metrics    *Metrics
}

type RecordFilter struct {
	EmployeeID    *string
	Date          *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	FinalizedOnly bool
}
