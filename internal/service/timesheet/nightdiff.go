package timesheet

import (
	"time"
)

// Night premium windows, fixed organization policy: 22:00-24:00 on the punch-in date
// and 00:00-06:00 on the day after.
const (
	nightWindowStartHour = 22
	nightWindowEndHour   = 6
)

// overlap returns the length of [aStart, aEnd) ∩ [bStart, bEnd), or zero
func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// nightOverlap is the worked time inside both night windows of timeIn's calendar date
func nightOverlap(timeIn, timeOut time.Time) time.Duration {
	y, m, d := timeIn.Date()
	loc := timeIn.Location()

	lateStart := time.Date(y, m, d, nightWindowStartHour, 0, 0, 0, loc)
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	earlyEnd := time.Date(y, m, d+1, nightWindowEndHour, 0, 0, 0, loc)

	return overlap(timeIn, timeOut, lateStart, midnight) +
		overlap(timeIn, timeOut, midnight, earlyEnd)
}

// NightDifferentialHours returns the hours of [timeIn, timeOut) falling in the night windows,
// rounded to two decimals. Windows are taken in timeIn's location.
func NightDifferentialHours(timeIn, timeOut time.Time) float64 {
	if !timeOut.After(timeIn) {
		return 0
	}
	return toFloat(hoursOf(nightOverlap(timeIn, timeOut)))
}
