package summary

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestBuildWeeklyView(t *testing.T) {
	tests := []struct {
		name  string
		dates []int
		want  []int
	}{
		{name: "empty", dates: nil, want: []int{}},
		{name: "fewer than a week", dates: []int{3, 1, 2}, want: []int{1, 2, 3}},
		{name: "keeps the latest seven", dates: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, want: []int{4, 5, 6, 7, 8, 9, 10}},
		{name: "gaps are not zero-filled", dates: []int{20, 2, 11, 5}, want: []int{2, 5, 11, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var all []summary.DailySummary
			for _, d := range tt.dates {
				all = append(all, summary.DailySummary{Date: day(d), TotalEmployees: d})
			}

			view := BuildWeeklyView(all)

			got := make([]int, 0, len(view))
			for _, s := range view {
				got = append(got, s.Date.Day())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildWeeklyView_DoesNotReorderInput(t *testing.T) {
	all := []summary.DailySummary{{Date: day(2)}, {Date: day(1)}}

	BuildWeeklyView(all)

	assert.Equal(t, day(2), all[0].Date)
}
