package summary

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// ========== DAILY SUMMARY ==========

type DailySummaryResponse struct {
	Date           string  `json:"date"` // Format: "YYYY-MM-DD"
	TotalRegular   float64 `json:"total_regular"`
	TotalOvertime  float64 `json:"total_overtime"`
	TotalNightDiff float64 `json:"total_night_diff"`
	TotalLate      float64 `json:"total_late"`
	TotalUndertime float64 `json:"total_undertime"`
	TotalEmployees int     `json:"total_employees"`
	UpdatedAt      string  `json:"updated_at"`
}

// BreakdownResponse is one row of the per-employee table under a daily summary
type BreakdownResponse struct {
	EmployeeID             string  `json:"employee_id"`
	Name                   string  `json:"name"`
	RegularHours           float64 `json:"regular_hours"`
	OvertimeHours          float64 `json:"overtime_hours"`
	NightDifferentialHours float64 `json:"night_differential_hours"`
	LateMinutes            float64 `json:"late_minutes"`
	UndertimeMinutes       float64 `json:"undertime_minutes"`
	RecordedAt             string  `json:"recorded_at"`
}

// DailyReportResponse combines the summary and its breakdown for the admin daily report
type DailyReportResponse struct {
	Summary *DailySummaryResponse `json:"summary"`
	Records []BreakdownResponse   `json:"records"`
}

// ========== WEEKLY VIEW ==========

type WeeklyViewResponse struct {
	Days []DailySummaryResponse `json:"days"`
}

func NewDailySummaryResponse(s DailySummary) DailySummaryResponse {
	return DailySummaryResponse{
		Date:           s.Date.Format(validator.DateLayout),
		TotalRegular:   s.TotalRegular,
		TotalOvertime:  s.TotalOvertime,
		TotalNightDiff: s.TotalNightDiff,
		TotalLate:      s.TotalLate,
		TotalUndertime: s.TotalUndertime,
		TotalEmployees: s.TotalEmployees,
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

func NewBreakdownResponse(b EmployeeDailyBreakdown) BreakdownResponse {
	return BreakdownResponse{
		EmployeeID:             b.EmployeeID,
		Name:                   b.DisplayName,
		RegularHours:           b.Metrics.RegularHours,
		OvertimeHours:          b.Metrics.OvertimeHours,
		NightDifferentialHours: b.Metrics.NightDifferentialHours,
		LateMinutes:            b.Metrics.LateMinutes,
		UndertimeMinutes:       b.Metrics.UndertimeMinutes,
		RecordedAt:             b.RecordedAt.Format(time.RFC3339),
	}
}

func NewWeeklyViewResponse(view WeeklyView) WeeklyViewResponse {
	days := make([]DailySummaryResponse, 0, len(view))
	for _, s := range view {
		days = append(days, NewDailySummaryResponse(s))
	}
	return WeeklyViewResponse{Days: days}
}
