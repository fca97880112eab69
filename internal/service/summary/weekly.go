package summary

import (
	"sort"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
)

// BuildWeeklyView keeps the WeeklyWindow most recent summaries in ascending date order.
// Dates without a summary are absent, never zero-filled.
func BuildWeeklyView(all []summary.DailySummary) summary.WeeklyView {
	sorted := make([]summary.DailySummary, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > summary.WeeklyWindow {
		sorted = sorted[:summary.WeeklyWindow]
	}

	view := make(summary.WeeklyView, len(sorted))
	for i, s := range sorted {
		view[len(sorted)-1-i] = s
	}
	return view
}
