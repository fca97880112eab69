// Package memory is the single-process store selected with STORE_DRIVER=memory.
// It implements every repository of the timesheet engine plus summary.Transactor.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

type recordKey struct {
	employeeID string
	date       string
}

type Store struct {
	clock clock.Clock

	mu         sync.Mutex
	records    map[recordKey]attendance.Record
	summaries  map[string]summary.DailySummary
	breakdowns map[recordKey]summary.EmployeeDailyBreakdown
	profiles   map[string]employee.Profile

	locksMu   sync.Mutex
	dateLocks map[string]*sync.Mutex
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock:      clk,
		records:    make(map[recordKey]attendance.Record),
		summaries:  make(map[string]summary.DailySummary),
		breakdowns: make(map[recordKey]summary.EmployeeDailyBreakdown),
		profiles:   make(map[string]employee.Profile),
		dateLocks:  make(map[string]*sync.Mutex),
	}
}

func dateKey(date time.Time) string {
	return date.Format(validator.DateLayout)
}

func (s *Store) dateLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.dateLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.dateLocks[key] = l
	}
	return l
}

type txKey struct{}

// tx collects undo steps and the date locks held until the transaction ends
type tx struct {
	undo  []func()
	locks map[string]*sync.Mutex
}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// WithinTx implements summary.Transactor. Nested calls join the outer transaction.
// On error every write made through ctx is undone before the date locks are released.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	t := &tx{locks: make(map[string]*sync.Mutex)}
	defer func() {
		for _, l := range t.locks {
			l.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		s.mu.Lock()
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// remember registers an undo step. Must be called with s.mu held.
func remember(ctx context.Context, undo func()) {
	if t := txFrom(ctx); t != nil {
		t.undo = append(t.undo, undo)
	}
}
