package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
	"shifttrack_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Employees ---
var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeDataValidation = errors.New("employee data validation error")
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
)

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required"`
	Role       string   `json:"role" binding:"required"`
	HourlyRate *float64 `json:"hourly_rate"`
	Password   string   `json:"password" binding:"required,min=8"`
}

type UpdateEmployeeRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Role       *string  `json:"role"`
	HourlyRate *float64 `json:"hourly_rate"`
	Password   *string  `json:"password"`
}

// --- EmployeeService Interface ---
type EmployeeService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(employeeID int64) (*models.Employee, error)
	GetEmployees(page, pageSize int, searchTerm *string) ([]models.Employee, int, error)
	UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(employeeID int64) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	shiftRepo    repositories.ShiftRepository
	db           *sql.DB
}

// NewEmployeeService creates a new instance of EmployeeService.
func NewEmployeeService(er repositories.EmployeeRepository, sr repositories.ShiftRepository, db *sql.DB) EmployeeService {
	return &employeeService{
		employeeRepo: er,
		shiftRepo:    sr,
		db:           db,
	}
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleEmployee
}

func (s *employeeService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrEmployeeDataValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrEmployeeDataValidation)
	}
	if !validRole(req.Role) {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrEmployeeDataValidation, models.RoleAdmin, models.RoleEmployee)
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrEmployeeDataValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrEmployeeDataValidation)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := &models.Employee{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Role:         req.Role,
		HourlyRate:   req.HourlyRate,
		PasswordHash: string(hashedPasswordBytes),
	}

	createdEmployee, err := s.employeeRepo.CreateEmployee(s.db, employee)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, employee.Email)
		}
		return nil, fmt.Errorf("failed to create employee in repository: %w", err)
	}
	return createdEmployee, nil
}

func (s *employeeService) GetEmployeeByID(employeeID int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	// The active shift is derived from the ledger, never stored.
	if activeShift, err := s.shiftRepo.GetActiveShiftByEmployee(employeeID); err == nil {
		employee.ActiveShift = activeShift
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve active shift: %w", err)
	}
	return employee, nil
}

func (s *employeeService) GetEmployees(page, pageSize int, searchTerm *string) ([]models.Employee, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	employees, totalCount, err := s.employeeRepo.GetEmployees(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get employees: %w", err)
	}
	return employees, totalCount, nil
}

func (s *employeeService) UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee for update: %w", err)
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrEmployeeDataValidation)
		}
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			return nil, fmt.Errorf("%w: invalid email address", ErrEmployeeDataValidation)
		}
		employee.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, fmt.Errorf("%w: role must be %q or %q", ErrEmployeeDataValidation, models.RoleAdmin, models.RoleEmployee)
		}
		employee.Role = *req.Role
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrEmployeeDataValidation)
		}
		employee.HourlyRate = req.HourlyRate
	}
	if req.Password != nil {
		if !utils.IsValidPasswordLength(*req.Password, 8) {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrEmployeeDataValidation)
		}
		hashedPasswordBytes, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		employee.PasswordHash = string(hashedPasswordBytes)
	}

	updatedEmployee, err := s.employeeRepo.UpdateEmployee(s.db, employee)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, employee.Email)
		}
		return nil, fmt.Errorf("failed to update employee in repository: %w", err)
	}
	return updatedEmployee, nil
}

// DeleteEmployee removes the employee record only. The employee's
// historical shifts stay in the ledger with a dangling employee id.
func (s *employeeService) DeleteEmployee(employeeID int64) error {
	err := s.employeeRepo.DeleteEmployee(s.db, employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
