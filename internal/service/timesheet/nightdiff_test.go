package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNightDifferentialHours(t *testing.T) {
	tests := []struct {
		name    string
		timeIn  time.Time
		timeOut time.Time
		want    float64
	}{
		{
			name:    "spans both windows",
			timeIn:  at("2024-01-10", "21:00"),
			timeOut: at("2024-01-11", "02:30"),
			want:    4.5,
		},
		{
			name:    "day shift",
			timeIn:  at("2024-01-10", "09:00"),
			timeOut: at("2024-01-10", "18:00"),
			want:    0,
		},
		{
			name:    "late window only",
			timeIn:  at("2024-01-10", "20:00"),
			timeOut: at("2024-01-10", "23:15"),
			want:    1.25,
		},
		{
			name:    "past early window end",
			timeIn:  at("2024-01-10", "23:00"),
			timeOut: at("2024-01-11", "08:00"),
			want:    7,
		},
		{
			name:    "windows follow punch-in date",
			timeIn:  at("2024-01-11", "01:00"),
			timeOut: at("2024-01-11", "05:00"),
			want:    0,
		},
		{
			name:    "reversed interval",
			timeIn:  at("2024-01-11", "02:00"),
			timeOut: at("2024-01-10", "23:00"),
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NightDifferentialHours(tt.timeIn, tt.timeOut))
		})
	}
}

func TestNightDifferentialHours_NonDecreasing(t *testing.T) {
	timeIn := at("2024-01-10", "20:30")
	previous := 0.0

	for timeOut := timeIn; timeOut.Before(at("2024-01-11", "09:00")); timeOut = timeOut.Add(11 * time.Minute) {
		got := NightDifferentialHours(timeIn, timeOut)
		assert.GreaterOrEqual(t, got, previous, "timeOut %s", timeOut.Format(time.RFC3339))
		previous = got
	}
	assert.Equal(t, 8.0, previous)
}

func TestNightDifferentialHours_UsesPunchInLocation(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	timeIn := time.Date(2024, 1, 10, 22, 0, 0, 0, manila)

	assert.Equal(t, 2.0, NightDifferentialHours(timeIn, timeIn.Add(2*time.Hour)))
	// same instants seen from UTC fall at 14:00-16:00
	assert.Equal(t, 0.0, NightDifferentialHours(timeIn.UTC(), timeIn.Add(2*time.Hour).UTC()))
}

func TestOverlap(t *testing.T) {
	base := at("2024-01-10", "00:00")
	h := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	assert.Equal(t, 2*time.Hour, overlap(h(1), h(5), h(3), h(8)))
	assert.Equal(t, time.Duration(0), overlap(h(1), h(3), h(3), h(8)))
	assert.Equal(t, time.Duration(0), overlap(h(5), h(6), h(1), h(2)))
	assert.Equal(t, time.Hour, overlap(h(0), h(10), h(4), h(5)))
}
