package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Punch-out persisted, summary not yet updated
	var pending *attendance.AggregationPendingError
	if errors.As(err, &pending) {
		slog.Warn("Aggregation pending", "employee_id", pending.EmployeeID, "error", pending.Err)
		AggregationPending(w, pending.Error(), map[string]string{
			"employee_id": pending.EmployeeID,
			"date":        pending.Date.Format(validator.DateLayout),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case attendance.IsStateConflict(err):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidInterval):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Summary domain errors
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Daily summary not found")

	// Default
	default:
		var storageErr *attendance.StorageError
		if errors.As(err, &storageErr) {
			slog.Error("Storage failure", "op", storageErr.Op, "error", storageErr.Err)
		} else {
			slog.Error("Unhandled error", "error", err)
		}
		InternalServerError(w, "An unexpected error occurred")
	}
}
