package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

const (
	WeeklySheet     = "Weekly"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var weeklyHeaders = []string{
	"Date", "Regular Hours", "Overtime Hours", "Night Diff Hours", "Late Minutes", "Undertime Minutes", "Employees",
}

// WeeklyWorkbook lays the weekly view out as one row per date under a header row
func WeeklyWorkbook(view summary.WeeklyView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), WeeklySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range weeklyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(WeeklySheet, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	for r, s := range view {
		values := []any{
			s.Date.Format(validator.DateLayout),
			s.TotalRegular,
			s.TotalOvertime,
			s.TotalNightDiff,
			s.TotalLate,
			s.TotalUndertime,
			s.TotalEmployees,
		}
		for c, val := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(WeeklySheet, cell, val); err != nil {
				f.Close()
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}

// WriteWeekly streams the weekly workbook to w
func WriteWeekly(w io.Writer, view summary.WeeklyView) error {
	f, err := WeeklyWorkbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
