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

type dailySummaryRepository struct {
	db *database.DB
}

func NewDailySummaryRepository(db *database.DB) summary.DailySummaryRepository {
	return &dailySummaryRepository{db: db}
}

const summaryColumns = `date, total_regular, total_overtime, total_night_diff, total_late, total_undertime,
	total_employees, updated_at`

func scanSummary(row pgx.Row) (summary.DailySummary, error) {
	var s summary.DailySummary
	err := row.Scan(
		&s.Date, &s.TotalRegular, &s.TotalOvertime, &s.TotalNightDiff, &s.TotalLate, &s.TotalUndertime,
		&s.TotalEmployees, &s.UpdatedAt,
	)
	return s, err
}

// LockByDate implements summary.DailySummaryRepository.
// Must run inside a transaction for the row lock to outlive the call.
func (r *dailySummaryRepository) LockByDate(ctx context.Context, date time.Time) (summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `INSERT INTO daily_summaries (date) VALUES ($1) ON CONFLICT (date) DO NOTHING`, date); err != nil {
		return summary.DailySummary{}, fmt.Errorf("failed to create daily summary: %w", err)
	}

	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE date = $1 FOR UPDATE`
	s, err := scanSummary(q.QueryRow(ctx, query, date))
	if err != nil {
		return summary.DailySummary{}, fmt.Errorf("failed to lock daily summary: %w", err)
	}
	return s, nil
}

// AddDelta implements summary.DailySummaryRepository with a single atomic increment.
func (r *dailySummaryRepository) AddDelta(ctx context.Context, date time.Time, delta summary.Delta) (summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO daily_summaries AS s (
			date, total_regular, total_overtime, total_night_diff, total_late, total_undertime, total_employees
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO UPDATE
		SET total_regular = s.total_regular + EXCLUDED.total_regular,
			total_overtime = s.total_overtime + EXCLUDED.total_overtime,
			total_night_diff = s.total_night_diff + EXCLUDED.total_night_diff,
			total_late = s.total_late + EXCLUDED.total_late,
			total_undertime = s.total_undertime + EXCLUDED.total_undertime,
			total_employees = s.total_employees + EXCLUDED.total_employees,
			updated_at = NOW()
		RETURNING ` + summaryColumns

	s, err := scanSummary(q.QueryRow(ctx, query,
		date, delta.Regular, delta.Overtime, delta.NightDiff, delta.Late, delta.Undertime, delta.Employees,
	))
	if err != nil {
		return summary.DailySummary{}, fmt.Errorf("failed to add delta to daily summary: %w", err)
	}
	return s, nil
}

// GetByDate implements summary.DailySummaryRepository.
func (r *dailySummaryRepository) GetByDate(ctx context.Context, date time.Time) (summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM daily_summaries WHERE date = $1`
	s, err := scanSummary(q.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.DailySummary{}, summary.ErrSummaryNotFound
		}
		return summary.DailySummary{}, fmt.Errorf("failed to get daily summary: %w", err)
	}
	return s, nil
}

// DeleteByDate implements summary.DailySummaryRepository.
func (r *dailySummaryRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM daily_summaries WHERE date = $1 AND total_employees <= 0`
	if _, err := q.Exec(ctx, query, date); err != nil {
		return fmt.Errorf("failed to delete daily summary: %w", err)
	}
	return nil
}

// ListRecent implements summary.DailySummaryRepository. A non-positive limit lists everything.
func (r *dailySummaryRepository) ListRecent(ctx context.Context, limit int) ([]summary.DailySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM daily_summaries
		ORDER BY date DESC
		LIMIT NULLIF($1::int, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.DailySummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily summaries: %w", err)
	}
	return summaries, nil
}
