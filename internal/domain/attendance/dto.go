package attendance

import (
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MetricsResponse struct {
	RegularHours           float64 `json:"regular_hours"`
	OvertimeHours          float64 `json:"overtime_hours"`
	LateMinutes            float64 `json:"late_minutes"`
	UndertimeMinutes       float64 `json:"undertime_minutes"`
	NightDifferentialHours float64 `json:"night_differential_hours"`
}

type RecordResponse struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	EmployeeName *string          `json:"employee_name,omitempty"`
	Date         string           `json:"date"`
	TimeIn       *string          `json:"time_in,omitempty"`
	TimeOut      *string          `json:"time_out,omitempty"`
	Metrics      *MetricsResponse `json:"metrics,omitempty"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

type ListRecordsResponse struct {
	TotalCount int              `json:"total_count"`
	Records    []RecordResponse `json:"records"`
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// NewRecordResponse converts a Record entity to RecordResponse
func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date.Format(validator.DateLayout),
		TimeIn:       timePtrToString(r.TimeIn),
		TimeOut:      timePtrToString(r.TimeOut),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Metrics != nil {
		resp.Metrics = &MetricsResponse{
			RegularHours:           r.Metrics.RegularHours,
			OvertimeHours:          r.Metrics.OvertimeHours,
			LateMinutes:            r.Metrics.LateMinutes,
			UndertimeMinutes:       r.Metrics.UndertimeMinutes,
			NightDifferentialHours: r.Metrics.NightDifferentialHours,
		}
	}
	return resp
}

func NewListRecordsResponse(records []Record) ListRecordsResponse {
	responses := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, NewRecordResponse(r))
	}
	return ListRecordsResponse{
		TotalCount: len(responses),
		Records:    responses,
	}
}

// OverwriteRequest for admin to fix a record: wrong times, forgotten punch-out, etc.
// Leaving time_out empty reopens the record and removes it from the daily summary.
type OverwriteRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"-"`                  // YYYY-MM-DD
	TimeIn     string  `json:"time_in"`            // RFC3339
	TimeOut    *string `json:"time_out,omitempty"` // RFC3339

	ParsedDate    time.Time  `json:"-"`
	ParsedTimeIn  time.Time  `json:"-"`
	ParsedTimeOut *time.Time `json:"-"`
}

func (r *OverwriteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if date, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	} else {
		r.ParsedDate = date
	}

	if timeIn, valid := validator.IsValidDateTime(r.TimeIn); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "time_in",
			Message: "time_in must be an RFC3339 timestamp",
		})
	} else {
		r.ParsedTimeIn = timeIn
	}

	r.ParsedTimeOut = nil
	if r.TimeOut != nil && !validator.IsEmpty(*r.TimeOut) {
		if timeOut, valid := validator.IsValidDateTime(*r.TimeOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "time_out",
				Message: "time_out must be an RFC3339 timestamp",
			})
		} else {
			r.ParsedTimeOut = &timeOut
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
