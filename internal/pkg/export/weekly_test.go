package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWeekly(t *testing.T) {
	view := summary.WeeklyView{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), TotalRegular: 17, TotalLate: 12.5, TotalEmployees: 2},
		{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), TotalRegular: 8.25, TotalOvertime: 1.75, TotalEmployees: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWeekly(&buf, view))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WeeklySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, weeklyHeaders, rows[0])
	assert.Equal(t, []string{"2024-03-01", "17", "0", "0", "12.5", "0", "2"}, rows[1])
	assert.Equal(t, "2024-03-04", rows[2][0])
	assert.Equal(t, "1.75", rows[2][2])
}

func TestWriteWeekly_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWeekly(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WeeklySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
