package services

import (
	"errors"
	"fmt"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
	"shifttrack_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Auth DTOs ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Employee    *models.Employee `json:"employee"`
	AccessToken string           `json:"access_token"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
	GetProfile(employeeID int64) (*models.Employee, error)
}

type authService struct {
	employeeRepo repositories.EmployeeRepository
	shiftRepo    repositories.ShiftRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(er repositories.EmployeeRepository, sr repositories.ShiftRepository) AuthService {
	return &authService{
		employeeRepo: er,
		shiftRepo:    sr,
	}
}

func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	employee, err := s.employeeRepo.GetEmployeeByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up employee for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(employee.ID, employee.Email, employee.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		Employee:    employee,
		AccessToken: token,
	}, nil
}

func (s *authService) GetProfile(employeeID int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee profile: %w", err)
	}

	if activeShift, err := s.shiftRepo.GetActiveShiftByEmployee(employeeID); err == nil {
		employee.ActiveShift = activeShift
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve active shift: %w", err)
	}
	return employee, nil
}
