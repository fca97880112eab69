package employee

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

const DefaultRegularCapHours = 9.0

// Profile is the slice of the employee record the timesheet engine reads
type Profile struct {
	ID          string
	DisplayName string
	Schedule    *ShiftSchedule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name returns the display name, falling back to the employee ID
func (p Profile) Name() string {
	if validator.IsEmpty(p.DisplayName) {
		return p.ID
	}
	return p.DisplayName
}

// TimeOfDay is a wall-clock time without a date
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !validator.IsValidTimeOfDay(s) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors t to the calendar date of day, in day's location
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

type ShiftSchedule struct {
	Start           TimeOfDay
	End             TimeOfDay
	RegularCapHours float64
}

// NewShiftSchedule builds a schedule from "HH:MM" strings. A non-positive cap means the default 9h.
func NewShiftSchedule(start, end string, regularCapHours float64) (ShiftSchedule, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return ShiftSchedule{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return ShiftSchedule{}, err
	}
	if regularCapHours <= 0 {
		regularCapHours = DefaultRegularCapHours
	}
	return ShiftSchedule{Start: s, End: e, RegularCapHours: regularCapHours}, nil
}

// EndsNextDay reports whether the scheduled end falls on the day after the start
func (s ShiftSchedule) EndsNextDay() bool {
	return s.End.minutes() <= s.Start.minutes()
}

// Bounds returns the scheduled start and end anchored to day's calendar date
func (s ShiftSchedule) Bounds(day time.Time) (time.Time, time.Time) {
	start := s.Start.On(day)
	end := s.End.On(day)
	if s.EndsNextDay() {
		end = s.End.On(day.AddDate(0, 0, 1))
	}
	return start, end
}
