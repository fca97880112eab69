package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/service/timesheet"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository

	aggregator      summary.Aggregator
	calculator      *timesheet.Calculator
	clock           clock.Clock
	location        *time.Location
	defaultSchedule employee.ShiftSchedule
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator summary.Aggregator,
	calculator *timesheet.Calculator,
	clk clock.Clock,
	location *time.Location,
	defaultSchedule employee.ShiftSchedule,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		aggregator:           aggregator,
		calculator:           calculator,
		clock:                clk,
		location:             location,
		defaultSchedule:      defaultSchedule,
	}
}

// now is the current instant in the organization time zone
func (s *AttendanceServiceImpl) now() time.Time {
	return s.clock.Now().In(s.location)
}

func storageError(op string, err error) error {
	return &attendance.StorageError{Op: op, Err: err}
}

func validateEmployeeID(employeeID string) error {
	if validator.IsEmpty(employeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}
	return nil
}

// profile loads the employee profile. Not-found passes through, anything else is a storage failure.
func (s *AttendanceServiceImpl) profile(ctx context.Context, employeeID string) (employee.Profile, error) {
	p, err := s.GetProfile(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Profile{}, err
		}
		return employee.Profile{}, storageError("load employee profile", err)
	}
	return p, nil
}

func (s *AttendanceServiceImpl) scheduleOf(p employee.Profile) employee.ShiftSchedule {
	if p.Schedule != nil {
		return *p.Schedule
	}
	return s.defaultSchedule
}

// RecordTimeIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordTimeIn(ctx context.Context, employeeID string) (attendance.Record, error) {
	if err := validateEmployeeID(employeeID); err != nil {
		return attendance.Record{}, err
	}

	now := s.now()
	today := attendance.DateOf(now)

	if _, err := s.profile(ctx, employeeID); err != nil {
		return attendance.Record{}, err
	}

	existing, err := s.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.Record{}, storageError("load attendance record", err)
	}
	if existing != nil && existing.TimeIn != nil {
		return attendance.Record{}, attendance.ErrAlreadyPunchedIn
	}

	record, err := s.AttendanceRepository.RecordTimeIn(ctx, attendance.TimeInUpdate{
		EmployeeID: employeeID,
		Date:       today,
		TimeIn:     now,
	})
	if err != nil {
		// a concurrent punch-in won the race
		if errors.Is(err, attendance.ErrAlreadyPunchedIn) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, storageError("record time in", err)
	}

	slog.Info("Employee punched in", "employee_id", employeeID, "date", today.Format(validator.DateLayout))
	return record, nil
}

// maxOpenShift is how long after punching in an open record from yesterday can still be punched out.
// Older open records are forgotten punch-outs and are left for an administrative overwrite.
const maxOpenShift = 24 * time.Hour

// retryAttempts bounds how often RetryAggregation follows a record that changed while it was applied
const retryAttempts = 3

// openRecord returns today's record once punched in, or yesterday's record while it is still open
// and within maxOpenShift of its punch-in
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, employeeID string, now time.Time) (*attendance.Record, error) {
	today := attendance.DateOf(now)
	record, err := s.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, err
	}
	if record != nil && record.TimeIn != nil {
		return record, nil
	}

	yesterday, err := s.GetByEmployeeAndDate(ctx, employeeID, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	if yesterday != nil && yesterday.IsOpen() && now.Sub(*yesterday.TimeIn) < maxOpenShift {
		return yesterday, nil
	}
	return nil, nil
}

// RecordTimeOut implements attendance.AttendanceService.
// When the punch-out is persisted but the summary update fails, the stored record is returned
// together with an *attendance.AggregationPendingError.
func (s *AttendanceServiceImpl) RecordTimeOut(ctx context.Context, employeeID string) (attendance.Record, error) {
	if err := validateEmployeeID(employeeID); err != nil {
		return attendance.Record{}, err
	}

	now := s.now()

	open, err := s.openRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.Record{}, storageError("load attendance record", err)
	}
	if open == nil {
		return attendance.Record{}, attendance.ErrNotPunchedIn
	}
	if open.TimeOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyPunchedOut
	}

	timeIn := open.TimeIn.In(s.location)
	if !now.After(timeIn) {
		return attendance.Record{}, attendance.ErrInvalidInterval
	}

	profile, err := s.profile(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	metrics, err := s.calculator.Metrics(timeIn, now, s.scheduleOf(profile))
	if err != nil {
		return attendance.Record{}, err
	}

	record, err := s.AttendanceRepository.RecordTimeOut(ctx, attendance.TimeOutUpdate{
		EmployeeID: employeeID,
		Date:       open.Date,
		TimeOut:    now,
		Metrics:    metrics,
	})
	if err != nil {
		if attendance.IsStateConflict(err) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, storageError("record time out", err)
	}

	slog.Info("Employee punched out",
		"employee_id", employeeID,
		"date", record.Date.Format(validator.DateLayout),
		"regular_hours", metrics.RegularHours,
		"overtime_hours", metrics.OvertimeHours,
	)

	if err := s.aggregate(ctx, record, profile); err != nil {
		return record, err
	}
	return record, nil
}

// aggregate brings the daily summary in line with record: finalized records contribute their
// metrics, open ones contribute nothing
func (s *AttendanceServiceImpl) aggregate(ctx context.Context, record attendance.Record, profile employee.Profile) error {
	var err error
	var metrics attendance.Metrics
	if record.IsFinalized() {
		metrics = *record.Metrics
		_, err = s.aggregator.Apply(ctx, summary.Contribution{
			Date:        record.Date,
			EmployeeID:  record.EmployeeID,
			DisplayName: profile.Name(),
			Metrics:     metrics,
		})
	} else {
		err = s.aggregator.Retract(ctx, record.Date, record.EmployeeID)
	}
	if err == nil {
		return nil
	}

	slog.Error("Daily summary update pending",
		"employee_id", record.EmployeeID,
		"date", record.Date.Format(validator.DateLayout),
		"error", err,
	)
	return &attendance.AggregationPendingError{
		EmployeeID: record.EmployeeID,
		Date:       record.Date,
		Metrics:    metrics,
		Err:        err,
	}
}

// RetryAggregation implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RetryAggregation(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	if err := validateEmployeeID(employeeID); err != nil {
		return attendance.Record{}, err
	}

	record, err := s.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.Record{}, storageError("load attendance record", err)
	}
	if record == nil {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	profile, err := s.profile(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	// follow concurrent overwrites until the applied record is still the stored one
	for attempt := 1; ; attempt++ {
		if err := s.aggregate(ctx, *record, profile); err != nil {
			return *record, err
		}

		current, err := s.GetByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return *record, storageError("reload attendance record", err)
		}
		if current == nil || sameContribution(*record, *current) {
			return *record, nil
		}
		if attempt == retryAttempts {
			slog.Warn("Attendance record kept changing during aggregation retry",
				"employee_id", employeeID,
				"date", date.Format(validator.DateLayout),
			)
			return *current, nil
		}
		record = current
	}
}

// sameContribution reports whether a and b contribute the same to the daily summary
func sameContribution(a, b attendance.Record) bool {
	if a.IsFinalized() != b.IsFinalized() {
		return false
	}
	if !a.IsFinalized() {
		return true
	}
	return *a.Metrics == *b.Metrics
}

// GetTodayRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayRecord(ctx context.Context, employeeID string) (*attendance.Record, error) {
	if err := validateEmployeeID(employeeID); err != nil {
		return nil, err
	}

	now := s.now()
	record, err := s.GetByEmployeeAndDate(ctx, employeeID, attendance.DateOf(now))
	if err != nil {
		return nil, storageError("load attendance record", err)
	}
	if record != nil {
		return record, nil
	}

	// an overnight shift still open from yesterday
	open, err := s.openRecord(ctx, employeeID, now)
	if err != nil {
		return nil, storageError("load attendance record", err)
	}
	return open, nil
}

// ListHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListHistory(ctx context.Context, employeeID string) ([]attendance.Record, error) {
	if err := validateEmployeeID(employeeID); err != nil {
		return nil, err
	}

	records, err := s.List(ctx, attendance.RecordFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, storageError("list attendance records", err)
	}
	return records, nil
}

// ListByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	day := attendance.DateOf(date)
	records, err := s.List(ctx, attendance.RecordFilter{Date: &day})
	if err != nil {
		return nil, storageError("list attendance records", err)
	}
	return records, nil
}

// OverwriteRecord implements attendance.AttendanceService.
// Metrics are recomputed from the new times, then the daily summary is corrected.
func (s *AttendanceServiceImpl) OverwriteRecord(ctx context.Context, req attendance.OverwriteRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	profile, err := s.profile(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	update := attendance.OverwriteUpdate{
		EmployeeID: req.EmployeeID,
		Date:       attendance.DateOf(req.ParsedDate),
		TimeIn:     req.ParsedTimeIn.In(s.location),
	}

	if req.ParsedTimeOut != nil {
		timeOut := req.ParsedTimeOut.In(s.location)
		if !timeOut.After(update.TimeIn) {
			return attendance.Record{}, attendance.ErrInvalidInterval
		}
		metrics, err := s.calculator.Metrics(update.TimeIn, timeOut, s.scheduleOf(profile))
		if err != nil {
			return attendance.Record{}, err
		}
		update.TimeOut = &timeOut
		update.Metrics = &metrics
	}

	record, err := s.Overwrite(ctx, update)
	if err != nil {
		return attendance.Record{}, storageError("overwrite attendance record", err)
	}

	slog.Info("Attendance record overwritten",
		"employee_id", record.EmployeeID,
		"date", record.Date.Format(validator.DateLayout),
		"finalized", record.IsFinalized(),
	)

	if err := s.aggregate(ctx, record, profile); err != nil {
		return record, err
	}
	return record, nil
}
