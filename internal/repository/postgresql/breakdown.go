package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type breakdownRepository struct {
	db *database.DB
}

func NewBreakdownRepository(db *database.DB) summary.BreakdownRepository {
	return &breakdownRepository{db: db}
}

const breakdownColumns = `date, employee_id, display_name,
	regular_hours, overtime_hours, late_minutes, undertime_minutes, night_differential_hours, recorded_at`

func scanBreakdown(row pgx.Row) (summary.EmployeeDailyBreakdown, error) {
	var b summary.EmployeeDailyBreakdown
	err := row.Scan(
		&b.Date, &b.EmployeeID, &b.DisplayName,
		&b.Metrics.RegularHours, &b.Metrics.OvertimeHours, &b.Metrics.LateMinutes,
		&b.Metrics.UndertimeMinutes, &b.Metrics.NightDifferentialHours, &b.RecordedAt,
	)
	return b, err
}

// GetByDateAndEmployee implements summary.BreakdownRepository.
func (r *breakdownRepository) GetByDateAndEmployee(ctx context.Context, date time.Time, employeeID string) (*summary.EmployeeDailyBreakdown, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakdownColumns + ` FROM daily_summary_records WHERE date = $1 AND employee_id = $2`
	b, err := scanBreakdown(q.QueryRow(ctx, query, date, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get breakdown row: %w", err)
	}
	return &b, nil
}

// Upsert implements summary.BreakdownRepository.
func (r *breakdownRepository) Upsert(ctx context.Context, row summary.EmployeeDailyBreakdown) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_summary_records (
			date, employee_id, display_name,
			regular_hours, overtime_hours, late_minutes, undertime_minutes, night_differential_hours, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (date, employee_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			late_minutes = EXCLUDED.late_minutes,
			undertime_minutes = EXCLUDED.undertime_minutes,
			night_differential_hours = EXCLUDED.night_differential_hours,
			recorded_at = EXCLUDED.recorded_at
	`

	m := row.Metrics
	_, err := q.Exec(ctx, query,
		row.Date, row.EmployeeID, row.DisplayName,
		m.RegularHours, m.OvertimeHours, m.LateMinutes, m.UndertimeMinutes, m.NightDifferentialHours, row.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert breakdown row: %w", err)
	}
	return nil
}

// Delete implements summary.BreakdownRepository.
func (r *breakdownRepository) Delete(ctx context.Context, date time.Time, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM daily_summary_records WHERE date = $1 AND employee_id = $2`, date, employeeID); err != nil {
		return fmt.Errorf("failed to delete breakdown row: %w", err)
	}
	return nil
}

// ListByDate implements summary.BreakdownRepository.
func (r *breakdownRepository) ListByDate(ctx context.Context, date time.Time) ([]summary.EmployeeDailyBreakdown, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakdownColumns + `
		FROM daily_summary_records
		WHERE date = $1
		ORDER BY display_name ASC, employee_id ASC
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list breakdown rows: %w", err)
	}
	defer rows.Close()

	var result []summary.EmployeeDailyBreakdown
	for rows.Next() {
		b, err := scanBreakdown(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breakdown rows: %w", err)
	}
	return result, nil
}
