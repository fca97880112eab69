package memory

import (
	"context"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
)

// SeedProfile registers or replaces an employee profile
func (s *Store) SeedProfile(p employee.Profile) employee.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if existing, ok := s.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.ID] = p
	return p
}

// SaveProfile implements employee.EmployeeRepository
func (s *Store) SaveProfile(ctx context.Context, p employee.Profile) (employee.Profile, error) {
	return s.SeedProfile(p), nil
}

// GetProfile implements employee.EmployeeRepository
func (s *Store) GetProfile(ctx context.Context, id string) (employee.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return employee.Profile{}, employee.ErrEmployeeNotFound
	}
	return p, nil
}
