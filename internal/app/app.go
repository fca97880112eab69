// Package app assembles the timesheet services from configuration. Both the API server and the
// CLI start from here so they share one store.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/attendance"
	summaryService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/service/timesheet"
)

type App struct {
	Clock    clock.Clock
	Location *time.Location
	Hub      *sse.Hub

	AttendanceRepo attendance.AttendanceRepository
	EmployeeRepo   employee.EmployeeRepository

	AttendanceService attendance.AttendanceService
	SummaryService    summary.SummaryService

	db *database.DB
}

// New wires repositories and services for the store driver named in cfg
func New(ctx context.Context, cfg *config.Config, clk clock.Clock) (*App, error) {
	defaultSchedule, err := employee.NewShiftSchedule(cfg.Shift.DefaultStart, cfg.Shift.DefaultEnd, cfg.Shift.RegularCapHours)
	if err != nil {
		return nil, fmt.Errorf("default shift: %w", err)
	}

	a := &App{
		Clock:    clk,
		Location: cfg.Location(),
		Hub:      sse.NewHub(),
	}

	var (
		transactor    summary.Transactor
		summaryRepo   summary.DailySummaryRepository
		breakdownRepo summary.BreakdownRepository
	)

	switch cfg.App.StoreDriver {
	case "memory":
		store := memory.NewStore(clk)
		a.AttendanceRepo = store
		a.EmployeeRepo = store
		transactor, summaryRepo, breakdownRepo = store, store, store
		slog.Warn("Using in-memory store, data is lost on restart")
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.db = db
		a.AttendanceRepo = postgresql.NewAttendanceRepository(db)
		a.EmployeeRepo = postgresql.NewEmployeeRepository(db)
		transactor = postgresql.NewTransactor(db)
		summaryRepo = postgresql.NewDailySummaryRepository(db)
		breakdownRepo = postgresql.NewBreakdownRepository(db)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.App.StoreDriver)
	}

	a.SummaryService = summaryService.NewSummaryService(
		transactor,
		summaryRepo,
		breakdownRepo,
		clk,
		sse.NewSummaryPublisher(a.Hub),
	)
	a.AttendanceService = attendanceService.NewAttendanceService(
		a.AttendanceRepo,
		a.EmployeeRepo,
		a.SummaryService,
		timesheet.NewCalculator(),
		clk,
		a.Location,
		defaultSchedule,
	)
	return a, nil
}

// DB returns the PostgreSQL pool, or nil for the memory store
func (a *App) DB() *database.DB {
	return a.db
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
