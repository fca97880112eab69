package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

func cloneRecord(r attendance.Record) attendance.Record {
	if r.TimeIn != nil {
		v := *r.TimeIn
		r.TimeIn = &v
	}
	if r.TimeOut != nil {
		v := *r.TimeOut
		r.TimeOut = &v
	}
	if r.Metrics != nil {
		v := *r.Metrics
		r.Metrics = &v
	}
	return r
}

// putRecord stores r and registers its undo. Must be called with s.mu held.
func (s *Store) putRecord(ctx context.Context, key recordKey, r attendance.Record) {
	prev, existed := s.records[key]
	remember(ctx, func() {
		if existed {
			s.records[key] = prev
		} else {
			delete(s.records, key)
		}
	})
	s.records[key] = r
}

func (s *Store) withName(r attendance.Record) attendance.Record {
	if p, ok := s.profiles[r.EmployeeID]; ok {
		name := p.Name()
		r.EmployeeName = &name
	}
	return r
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository
func (s *Store) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordKey{employeeID, dateKey(date)}]
	if !ok {
		return nil, nil
	}
	out := s.withName(cloneRecord(r))
	return &out, nil
}

// RecordTimeIn implements attendance.AttendanceRepository
func (s *Store) RecordTimeIn(ctx context.Context, update attendance.TimeInUpdate) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{update.EmployeeID, dateKey(update.Date)}
	now := s.clock.Now()
	r, ok := s.records[key]
	if ok && r.TimeIn != nil {
		return attendance.Record{}, attendance.ErrAlreadyPunchedIn
	}
	if !ok {
		r = attendance.Record{
			ID:         uuid.NewString(),
			EmployeeID: update.EmployeeID,
			Date:       update.Date,
			CreatedAt:  now,
		}
	}
	timeIn := update.TimeIn
	r.TimeIn = &timeIn
	r.UpdatedAt = now

	s.putRecord(ctx, key, r)
	return s.withName(cloneRecord(r)), nil
}

// RecordTimeOut implements attendance.AttendanceRepository
func (s *Store) RecordTimeOut(ctx context.Context, update attendance.TimeOutUpdate) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{update.EmployeeID, dateKey(update.Date)}
	r, ok := s.records[key]
	if !ok || r.TimeIn == nil {
		return attendance.Record{}, attendance.ErrNotPunchedIn
	}
	if r.TimeOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyPunchedOut
	}
	timeOut := update.TimeOut
	metrics := update.Metrics
	r.TimeOut = &timeOut
	r.Metrics = &metrics
	r.UpdatedAt = s.clock.Now()

	s.putRecord(ctx, key, r)
	return s.withName(cloneRecord(r)), nil
}

// Overwrite implements attendance.AttendanceRepository
func (s *Store) Overwrite(ctx context.Context, update attendance.OverwriteUpdate) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey{update.EmployeeID, dateKey(update.Date)}
	now := s.clock.Now()
	r, ok := s.records[key]
	if !ok {
		r = attendance.Record{
			ID:         uuid.NewString(),
			EmployeeID: update.EmployeeID,
			Date:       update.Date,
			CreatedAt:  now,
		}
	}
	timeIn := update.TimeIn
	r.TimeIn = &timeIn
	r.TimeOut = update.TimeOut
	r.Metrics = update.Metrics
	r.UpdatedAt = now
	r = cloneRecord(r)

	s.putRecord(ctx, key, r)
	return s.withName(cloneRecord(r)), nil
}

// List implements attendance.AttendanceRepository
func (s *Store) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []attendance.Record
	for _, r := range s.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Date != nil && !r.Date.Equal(*filter.Date) {
			continue
		}
		if filter.StartDate != nil && r.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && r.Date.After(*filter.EndDate) {
			continue
		}
		if filter.FinalizedOnly && !r.IsFinalized() {
			continue
		}
		out = append(out, s.withName(cloneRecord(r)))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
