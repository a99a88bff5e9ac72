package services

import (
	"errors"
	"fmt"
	"time"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Reports ---
var (
	ErrReportDateFormat = errors.New("invalid report date format, please use YYYY-MM-DD")
	ErrReportValidation = errors.New("report validation error")
)

const reportDateLayout = "2006-01-02"

// unknownEmployeeName labels rows whose employee record has been deleted
// from the store; the ledger keeps the dangling reference.
const unknownEmployeeName = "Unknown"

// --- ReportService Interface ---
type ReportService interface {
	// GenerateReport derives payroll rows from the shift ledger. Only
	// completed shifts whose start time falls inside the inclusive day
	// range are included. reportType is carried as a label; it does not
	// change the aggregation.
	GenerateReport(startDate, endDate, reportType string, employeeID *int64) (*models.Report, error)

	// GetTodayHours and GetWeekHours are live figures: active shifts
	// contribute hours up to the moment of the call.
	GetTodayHours(employeeID *int64) (float64, error)
	GetWeekHours(employeeID *int64) (float64, error)

	GetActiveEmployees() ([]models.Employee, error)
	GetDashboardSummary(employeeID *int64) (*models.DashboardSummary, error)
}

type reportService struct {
	shiftRepo    repositories.ShiftRepository
	employeeRepo repositories.EmployeeRepository

	// now is swappable so window math stays testable.
	now func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(sr repositories.ShiftRepository, er repositories.EmployeeRepository) ReportService {
	return &reportService{
		shiftRepo:    sr,
		employeeRepo: er,
		now:          time.Now,
	}
}

func validReportType(reportType string) bool {
	switch reportType {
	case models.ReportTypeDaily, models.ReportTypeWeekly, models.ReportTypeMonthly:
		return true
	}
	return false
}

func (s *reportService) GenerateReport(startDate, endDate, reportType string, employeeID *int64) (*models.Report, error) {
	if !validReportType(reportType) {
		return nil, fmt.Errorf("%w: unknown report type %q", ErrReportValidation, reportType)
	}

	from, err := time.ParseInLocation(reportDateLayout, startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", ErrReportDateFormat)
	}
	toDay, err := time.ParseInLocation(reportDateLayout, endDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", ErrReportDateFormat)
	}
	if toDay.Before(from) {
		return nil, fmt.Errorf("%w: end date must not be before start date", ErrReportValidation)
	}
	// End bound is inclusive at day granularity.
	to := toDay.AddDate(0, 0, 1)

	shifts, _, err := s.shiftRepo.GetShifts(repositories.ShiftFilter{
		EmployeeID:    employeeID,
		StartTimeFrom: &from,
		StartTimeTo:   &to,
		OnlyCompleted: true,
	}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts for report: %w", err)
	}

	employeeCache := make(map[int64]*models.Employee)
	rows := make([]models.ReportRow, 0, len(shifts))
	for _, shift := range shifts {
		employee, cached := employeeCache[shift.EmployeeID]
		if !cached {
			employee, err = s.employeeRepo.GetEmployeeByID(shift.EmployeeID)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					return nil, fmt.Errorf("failed to resolve employee %d for report: %w", shift.EmployeeID, err)
				}
				employee = nil
			}
			employeeCache[shift.EmployeeID] = employee
		}

		hoursWorked := shift.EndTime.Sub(shift.StartTime).Hours()

		row := models.ReportRow{
			Date:         shift.StartTime.Format(reportDateLayout),
			EmployeeID:   shift.EmployeeID,
			EmployeeName: unknownEmployeeName,
			HoursWorked:  hoursWorked,
		}
		if employee != nil {
			row.EmployeeName = employee.Name
			if employee.HourlyRate != nil {
				row.Earnings = hoursWorked * *employee.HourlyRate
			}
		}
		rows = append(rows, row)
	}

	return &models.Report{
		ID:         uuid.NewString(),
		StartDate:  startDate,
		EndDate:    endDate,
		Type:       reportType,
		EmployeeID: employeeID,
		Data:       rows,
	}, nil
}

// sumHours totals worked hours for shifts started inside [from, to),
// counting still-open shifts up to now. A nil to leaves the window open.
func (s *reportService) sumHours(employeeID *int64, from time.Time, to *time.Time) (float64, error) {
	shifts, _, err := s.shiftRepo.GetShifts(repositories.ShiftFilter{
		EmployeeID:    employeeID,
		StartTimeFrom: &from,
		StartTimeTo:   to,
	}, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load shifts for hour summary: %w", err)
	}

	now := s.now()
	total := 0.0
	for _, shift := range shifts {
		total += shift.HoursWorked(now)
	}
	return total, nil
}

func (s *reportService) GetTodayHours(employeeID *int64) (float64, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)
	return s.sumHours(employeeID, startOfDay, &endOfDay)
}

func (s *reportService) GetWeekHours(employeeID *int64) (float64, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Week starts on Sunday, local time.
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	return s.sumHours(employeeID, startOfWeek, nil)
}

func (s *reportService) GetActiveEmployees() ([]models.Employee, error) {
	employees, err := s.employeeRepo.GetActiveEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to get active employees: %w", err)
	}
	return employees, nil
}

func (s *reportService) GetDashboardSummary(employeeID *int64) (*models.DashboardSummary, error) {
	todayHours, err := s.GetTodayHours(employeeID)
	if err != nil {
		return nil, err
	}
	weekHours, err := s.GetWeekHours(employeeID)
	if err != nil {
		return nil, err
	}
	activeEmployees, err := s.GetActiveEmployees()
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		TodayHours:      todayHours,
		WeekHours:       weekHours,
		ActiveEmployees: activeEmployees,
	}, nil
}
