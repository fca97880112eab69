package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	TimeIn(w http.ResponseWriter, r *http.Request)
	TimeOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	ListByDate(w http.ResponseWriter, r *http.Request)
	Overwrite(w http.ResponseWriter, r *http.Request)
	RetryAggregation(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// parseDateParam reads a YYYY-MM-DD value, reporting problems under field
func parseDateParam(field, value string) (time.Time, error) {
	date, valid := validator.IsValidDate(value)
	if !valid {
		return time.Time{}, validator.ValidationErrors{{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		}}
	}
	return date, nil
}

// TimeIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) TimeIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.RecordTimeIn(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", attendance.NewRecordResponse(record))
}

// TimeOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) TimeOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.RecordTimeOut(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch out successful", attendance.NewRecordResponse(record))
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.GetTodayRecord(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if record == nil {
		response.SuccessWithMessage(w, "No attendance record today", nil)
		return
	}

	response.Success(w, attendance.NewRecordResponse(*record))
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListHistory(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewListRecordsResponse(records))
}

// ListByDate implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewListRecordsResponse(records))
}

// Overwrite implements AttendanceHandler.
func (h *attendanceHandlerImpl) Overwrite(w http.ResponseWriter, r *http.Request) {
	var req attendance.OverwriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode overwrite request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.Date = chi.URLParam(r, "date")

	record, err := h.attendanceService.OverwriteRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", attendance.NewRecordResponse(record))
}

// RetryAggregation implements AttendanceHandler.
func (h *attendanceHandlerImpl) RetryAggregation(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.RetryAggregation(r.Context(), chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Daily summary updated", attendance.NewRecordResponse(record))
}
