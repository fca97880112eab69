package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (employee.Profile, error) {
	var (
		p          employee.Profile
		start, end *string
		regularCap *float64
	)
	if err := row.Scan(&p.ID, &p.DisplayName, &start, &end, &regularCap, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return employee.Profile{}, err
	}

	if start != nil && end != nil {
		capHours := 0.0
		if regularCap != nil {
			capHours = *regularCap
		}
		schedule, err := employee.NewShiftSchedule(*start, *end, capHours)
		if err != nil {
			return employee.Profile{}, fmt.Errorf("employee %s has an invalid schedule: %w", p.ID, err)
		}
		p.Schedule = &schedule
	}
	return p, nil
}

// GetProfile implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetProfile(ctx context.Context, id string) (employee.Profile, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, display_name, to_char(shift_start, 'HH24:MI'), to_char(shift_end, 'HH24:MI'),
			regular_cap_hours, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	p, err := scanProfile(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Profile{}, employee.ErrEmployeeNotFound
		}
		return employee.Profile{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return p, nil
}

// SaveProfile implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SaveProfile(ctx context.Context, p employee.Profile) (employee.Profile, error) {
	q := GetQuerier(ctx, e.db)

	var start, end *string
	var regularCap *float64
	if s := p.Schedule; s != nil {
		startStr, endStr := s.Start.String(), s.End.String()
		start, end, regularCap = &startStr, &endStr, &s.RegularCapHours
	}

	query := `
		INSERT INTO employees (id, display_name, shift_start, shift_end, regular_cap_hours)
		VALUES ($1, $2, $3::time, $4::time, $5)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			shift_start = EXCLUDED.shift_start,
			shift_end = EXCLUDED.shift_end,
			regular_cap_hours = EXCLUDED.regular_cap_hours,
			updated_at = NOW()
		RETURNING id, display_name, to_char(shift_start, 'HH24:MI'), to_char(shift_end, 'HH24:MI'),
			regular_cap_hours, created_at, updated_at
	`

	saved, err := scanProfile(q.QueryRow(ctx, query, p.ID, p.DisplayName, start, end, regularCap))
	if err != nil {
		return employee.Profile{}, fmt.Errorf("failed to save employee with id %s: %w", p.ID, err)
	}
	return saved, nil
}
