package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverwriteRequest_Validate(t *testing.T) {
	out := "2024-01-10T18:00:00Z"
	req := OverwriteRequest{
		EmployeeID: "emp-1",
		Date:       "2024-01-10",
		TimeIn:     "2024-01-10T09:00:00Z",
		TimeOut:    &out,
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), req.ParsedDate)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), req.ParsedTimeIn)
	require.NotNil(t, req.ParsedTimeOut)
	assert.Equal(t, time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC), *req.ParsedTimeOut)
}

func TestOverwriteRequest_Validate_Errors(t *testing.T) {
	bad := "yesterday"
	req := OverwriteRequest{Date: "10/01/2024", TimeIn: "09:00", TimeOut: &bad}

	err := req.Validate()

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "time_in")
	assert.Contains(t, fields, "time_out")
}

func TestNewRecordResponse(t *testing.T) {
	in := time.Date(2024, 1, 10, 8, 45, 0, 0, time.UTC)
	out := time.Date(2024, 1, 10, 19, 30, 0, 0, time.UTC)
	r := Record{
		ID:         "rec-1",
		EmployeeID: "emp-1",
		Date:       DateOf(in),
		TimeIn:     &in,
		TimeOut:    &out,
		Metrics:    &Metrics{RegularHours: 9, OvertimeHours: 1.75},
	}

	resp := NewRecordResponse(r)

	assert.Equal(t, "2024-01-10", resp.Date)
	require.NotNil(t, resp.TimeIn)
	assert.Equal(t, "2024-01-10T08:45:00Z", *resp.TimeIn)
	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 1.75, resp.Metrics.OvertimeHours)
}

func TestIsStateConflict(t *testing.T) {
	assert.True(t, IsStateConflict(ErrAlreadyPunchedIn))
	assert.True(t, IsStateConflict(ErrAlreadyPunchedOut))
	assert.True(t, IsStateConflict(ErrNotPunchedIn))
	assert.False(t, IsStateConflict(ErrInvalidInterval))
	assert.False(t, IsStateConflict(&StorageError{Op: "get", Err: ErrRecordNotFound}))
}

func TestAggregationPendingError_Unwrap(t *testing.T) {
	storageErr := &StorageError{Op: "apply", Err: assert.AnError}
	err := &AggregationPendingError{EmployeeID: "emp-1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Err: storageErr}

	var se *StorageError
	assert.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "2024-03-01")
}
