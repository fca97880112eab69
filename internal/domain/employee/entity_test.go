package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
	assert.Equal(t, "09:05", tod.String())

	_, err = ParseTimeOfDay("9am")
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
}

func TestNewShiftSchedule_DefaultCap(t *testing.T) {
	s, err := NewShiftSchedule("09:00", "18:00", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegularCapHours, s.RegularCapHours)
	assert.False(t, s.EndsNextDay())
}

func TestShiftSchedule_Bounds(t *testing.T) {
	day := time.Date(2024, 1, 10, 8, 45, 0, 0, time.UTC)

	dayShift, err := NewShiftSchedule("09:00", "18:00", 9)
	require.NoError(t, err)
	start, end := dayShift.Bounds(day)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC), end)

	nightShift, err := NewShiftSchedule("22:00", "06:00", 8)
	require.NoError(t, err)
	assert.True(t, nightShift.EndsNextDay())
	start, end = nightShift.Bounds(day)
	assert.Equal(t, time.Date(2024, 1, 10, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 11, 6, 0, 0, 0, time.UTC), end)
}

func TestProfile_Name(t *testing.T) {
	assert.Equal(t, "Ana", Profile{ID: "e1", DisplayName: "Ana"}.Name())
	assert.Equal(t, "e1", Profile{ID: "e1", DisplayName: "  "}.Name())
}
