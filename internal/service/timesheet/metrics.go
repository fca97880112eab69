package timesheet

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// TotalHours is the worked interval in hours, rounded to two decimals
func TotalHours(timeIn, timeOut time.Time) float64 {
	return toFloat(hoursOf(timeOut.Sub(timeIn)))
}

// Metrics derives the timesheet metrics of one punch pair. The schedule is anchored to
// timeIn's calendar date in timeIn's location.
func (c *Calculator) Metrics(timeIn, timeOut time.Time, schedule employee.ShiftSchedule) (attendance.Metrics, error) {
	if timeOut.Before(timeIn) {
		return attendance.Metrics{}, attendance.ErrInvalidInterval
	}

	scheduledStart, scheduledEnd := schedule.Bounds(timeIn)

	return attendance.Metrics{
		RegularHours:           toFloat(c.regularHours(timeIn, timeOut, schedule)),
		OvertimeHours:          toFloat(c.overtimeHours(timeIn, timeOut, schedule)),
		LateMinutes:            toFloat(minutesOf(c.lateness(timeIn, scheduledStart, scheduledEnd))),
		UndertimeMinutes:       toFloat(minutesOf(c.undertime(timeOut, scheduledEnd))),
		NightDifferentialHours: NightDifferentialHours(timeIn, timeOut),
	}, nil
}

// regularCap is the schedule cap at two decimals so regular + overtime adds up to the rounded total
func (c *Calculator) regularCap(schedule employee.ShiftSchedule) decimal.Decimal {
	regularCap := schedule.RegularCapHours
	if regularCap <= 0 {
		regularCap = employee.DefaultRegularCapHours
	}
	return decimal.NewFromFloat(regularCap).Round(2)
}

func (c *Calculator) regularHours(timeIn, timeOut time.Time, schedule employee.ShiftSchedule) decimal.Decimal {
	total := hoursOf(timeOut.Sub(timeIn)).Round(2)
	return decimal.Min(total, c.regularCap(schedule))
}

func (c *Calculator) overtimeHours(timeIn, timeOut time.Time, schedule employee.ShiftSchedule) decimal.Decimal {
	total := hoursOf(timeOut.Sub(timeIn)).Round(2)
	return decimal.Max(decimal.Zero, total.Sub(c.regularCap(schedule)))
}

// lateness is clamped to the scheduled shift length: punching in after the scheduled end
// counts the whole shift as late, never more.
func (c *Calculator) lateness(timeIn, scheduledStart, scheduledEnd time.Time) time.Duration {
	late := timeIn.Sub(scheduledStart)
	if late <= 0 {
		return 0
	}
	if shift := scheduledEnd.Sub(scheduledStart); late > shift {
		return shift
	}
	return late
}

func (c *Calculator) undertime(timeOut, scheduledEnd time.Time) time.Duration {
	if timeOut.Before(scheduledEnd) {
		return scheduledEnd.Sub(timeOut)
	}
	return 0
}
