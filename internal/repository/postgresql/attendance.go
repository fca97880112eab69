package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const recordColumns = `
	a.id, a.employee_id, a.date, a.time_in, a.time_out,
	a.regular_hours, a.overtime_hours, a.late_minutes, a.undertime_minutes, a.night_differential_hours,
	a.created_at, a.updated_at`

// scanRecord reads recordColumns, optionally followed by the employee display name
func scanRecord(row pgx.Row, withName bool) (attendance.Record, error) {
	var (
		r                                            attendance.Record
		regular, overtime, late, undertime, nightDif *float64
		name                                         *string
	)
	dest := []any{
		&r.ID, &r.EmployeeID, &r.Date, &r.TimeIn, &r.TimeOut,
		&regular, &overtime, &late, &undertime, &nightDif,
		&r.CreatedAt, &r.UpdatedAt,
	}
	if withName {
		dest = append(dest, &name)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Record{}, err
	}

	if regular != nil {
		r.Metrics = &attendance.Metrics{
			RegularHours:           *regular,
			OvertimeHours:          deref(overtime),
			LateMinutes:            deref(late),
			UndertimeMinutes:       deref(undertime),
			NightDifferentialHours: deref(nightDif),
		}
	}
	r.EmployeeName = name
	return r, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `, NULLIF(e.display_name, '')
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2
	`

	r, err := scanRecord(q.QueryRow(ctx, query, employeeID, date), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &r, nil
}

// RecordTimeIn implements attendance.AttendanceRepository.
// The conditional upsert makes a concurrent second punch-in return no row.
func (a *attendanceRepository) RecordTimeIn(ctx context.Context, update attendance.TimeInUpdate) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records AS a (employee_id, date, time_in)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET time_in = EXCLUDED.time_in, updated_at = NOW()
		WHERE a.time_in IS NULL
		RETURNING ` + recordColumns

	r, err := scanRecord(q.QueryRow(ctx, query, update.EmployeeID, update.Date, update.TimeIn), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyPunchedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to record time in: %w", err)
	}
	return r, nil
}

// RecordTimeOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordTimeOut(ctx context.Context, update attendance.TimeOutUpdate) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records AS a
		SET time_out = $3,
			regular_hours = $4,
			overtime_hours = $5,
			late_minutes = $6,
			undertime_minutes = $7,
			night_differential_hours = $8,
			updated_at = NOW()
		WHERE a.employee_id = $1 AND a.date = $2
		  AND a.time_in IS NOT NULL
		  AND a.time_out IS NULL
		RETURNING ` + recordColumns

	m := update.Metrics
	r, err := scanRecord(q.QueryRow(ctx, query,
		update.EmployeeID, update.Date, update.TimeOut,
		m.RegularHours, m.OvertimeHours, m.LateMinutes, m.UndertimeMinutes, m.NightDifferentialHours,
	), false)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("failed to record time out: %w", err)
	}

	// nothing matched, find out which precondition failed
	existing, err := a.GetByEmployeeAndDate(ctx, update.EmployeeID, update.Date)
	if err != nil {
		return attendance.Record{}, err
	}
	if existing == nil || existing.TimeIn == nil {
		return attendance.Record{}, attendance.ErrNotPunchedIn
	}
	return attendance.Record{}, attendance.ErrAlreadyPunchedOut
}

// Overwrite implements attendance.AttendanceRepository.
func (a *attendanceRepository) Overwrite(ctx context.Context, update attendance.OverwriteUpdate) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var regular, overtime, late, undertime, nightDiff *float64
	if m := update.Metrics; m != nil {
		regular, overtime, late = &m.RegularHours, &m.OvertimeHours, &m.LateMinutes
		undertime, nightDiff = &m.UndertimeMinutes, &m.NightDifferentialHours
	}

	query := `
		INSERT INTO attendance_records AS a (
			employee_id, date, time_in, time_out,
			regular_hours, overtime_hours, late_minutes, undertime_minutes, night_differential_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET time_in = EXCLUDED.time_in,
			time_out = EXCLUDED.time_out,
			regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			late_minutes = EXCLUDED.late_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			night_differential_hours = EXCLUDED.night_differential_hours,
			updated_at = NOW()
		RETURNING ` + recordColumns

	r, err := scanRecord(q.QueryRow(ctx, query,
		update.EmployeeID, update.Date, update.TimeIn, update.TimeOut,
		regular, overtime, late, undertime, nightDiff,
	), false)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to overwrite attendance record: %w", err)
	}
	return r, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where := "WHERE 1=1"
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil {
		where += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.FinalizedOnly {
		where += " AND a.time_out IS NOT NULL"
	}

	query := fmt.Sprintf(`
		SELECT %s, NULLIF(e.display_name, '')
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		%s
		ORDER BY a.date DESC, a.employee_id ASC
	`, recordColumns, where)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanRecord(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
