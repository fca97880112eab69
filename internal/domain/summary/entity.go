package summary

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
)

// WeeklyWindow is the number of daily summaries in the weekly view
const WeeklyWindow = 7

// DailySummary holds organization-wide totals for one calendar date.
// Every total is the sum over employees with a finalized record that date, each counted once.
type DailySummary struct {
	Date           time.Time
	TotalRegular   float64
	TotalOvertime  float64
	TotalNightDiff float64
	TotalLate      float64
	TotalUndertime float64
	TotalEmployees int
	UpdatedAt      time.Time
}

// EmployeeDailyBreakdown is one employee's contribution to a DailySummary.
// (Date, EmployeeID) doubles as the idempotency key of the contribution.
type EmployeeDailyBreakdown struct {
	Date        time.Time
	EmployeeID  string
	DisplayName string
	Metrics     attendance.Metrics
	RecordedAt  time.Time
}

// Contribution is what a punch-out hands to the aggregator
type Contribution struct {
	Date        time.Time
	EmployeeID  string
	DisplayName string
	Metrics     attendance.Metrics
}

// Delta is added to a DailySummary's totals in one atomic step
type Delta struct {
	Regular   float64
	Overtime  float64
	NightDiff float64
	Late      float64
	Undertime float64
	Employees int
}

// IsZero reports whether applying d changes nothing
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// WeeklyView is the most recent daily summaries, ascending by date
type WeeklyView []DailySummary
