package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/shopspring/decimal"
)

// LockByDate implements summary.DailySummaryRepository. Outside a transaction it only creates the row.
func (s *Store) LockByDate(ctx context.Context, date time.Time) (summary.DailySummary, error) {
	key := dateKey(date)
	if t := txFrom(ctx); t != nil {
		if _, held := t.locks[key]; !held {
			l := s.dateLock(key)
			l.Lock()
			t.locks[key] = l
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.summaries[key]; ok {
		return existing, nil
	}
	created := summary.DailySummary{Date: date, UpdatedAt: s.clock.Now()}
	s.summaries[key] = created
	remember(ctx, func() { delete(s.summaries, key) })
	return created, nil
}

// addTotal adds two-decimal amounts exactly, as NUMERIC(10,2) would
func addTotal(total, delta float64) float64 {
	return decimal.NewFromFloat(total).Add(decimal.NewFromFloat(delta)).Round(2).InexactFloat64()
}

// AddDelta implements summary.DailySummaryRepository
func (s *Store) AddDelta(ctx context.Context, date time.Time, delta summary.Delta) (summary.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(date)
	prev, existed := s.summaries[key]
	next := prev
	if !existed {
		next = summary.DailySummary{Date: date}
	}
	next.TotalRegular = addTotal(next.TotalRegular, delta.Regular)
	next.TotalOvertime = addTotal(next.TotalOvertime, delta.Overtime)
	next.TotalNightDiff = addTotal(next.TotalNightDiff, delta.NightDiff)
	next.TotalLate = addTotal(next.TotalLate, delta.Late)
	next.TotalUndertime = addTotal(next.TotalUndertime, delta.Undertime)
	next.TotalEmployees += delta.Employees
	next.UpdatedAt = s.clock.Now()

	remember(ctx, func() {
		if existed {
			s.summaries[key] = prev
		} else {
			delete(s.summaries, key)
		}
	})
	s.summaries[key] = next
	return next, nil
}

// GetByDate implements summary.DailySummaryRepository
func (s *Store) GetByDate(ctx context.Context, date time.Time) (summary.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	got, ok := s.summaries[dateKey(date)]
	if !ok {
		return summary.DailySummary{}, summary.ErrSummaryNotFound
	}
	return got, nil
}

// DeleteByDate implements summary.DailySummaryRepository
func (s *Store) DeleteByDate(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(date)
	prev, existed := s.summaries[key]
	if !existed || prev.TotalEmployees > 0 {
		return nil
	}
	remember(ctx, func() { s.summaries[key] = prev })
	delete(s.summaries, key)
	return nil
}

// ListRecent implements summary.DailySummaryRepository
func (s *Store) ListRecent(ctx context.Context, limit int) ([]summary.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]summary.DailySummary, 0, len(s.summaries))
	for _, v := range s.summaries {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetByDateAndEmployee implements summary.BreakdownRepository
func (s *Store) GetByDateAndEmployee(ctx context.Context, date time.Time, employeeID string) (*summary.EmployeeDailyBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.breakdowns[recordKey{employeeID, dateKey(date)}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// Upsert implements summary.BreakdownRepository
func (s *Store) Upsert(ctx context.Context, row summary.EmployeeDailyBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{row.EmployeeID, dateKey(row.Date)}
	prev, existed := s.breakdowns[key]
	remember(ctx, func() {
		if existed {
			s.breakdowns[key] = prev
		} else {
			delete(s.breakdowns, key)
		}
	})
	s.breakdowns[key] = row
	return nil
}

// Delete implements summary.BreakdownRepository
func (s *Store) Delete(ctx context.Context, date time.Time, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{employeeID, dateKey(date)}
	prev, existed := s.breakdowns[key]
	if !existed {
		return nil
	}
	remember(ctx, func() { s.breakdowns[key] = prev })
	delete(s.breakdowns, key)
	return nil
}

// ListByDate implements summary.BreakdownRepository
func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]summary.EmployeeDailyBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dateKey(date)
	var out []summary.EmployeeDailyBreakdown
	for k, row := range s.breakdowns {
		if k.date == key {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
