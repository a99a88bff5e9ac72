package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
)

// --- Custom Service Errors for Shifts ---
var (
	ErrShiftAlreadyActive = errors.New("employee already has an active shift")
	ErrNoActiveShift      = errors.New("no active shift found for employee")
	ErrOutOfRange         = errors.New("location is out of range")
)

// --- ShiftService Interface ---
//
// ShiftService owns the shift state machine: per employee the ledger holds
// either no open shift or exactly one. History accumulates as ended shifts.
type ShiftService interface {
	// ClockIn is the self-service start workflow: QR token -> location ->
	// proximity gate -> StartShift. No shift record is created when any
	// step fails.
	ClockIn(employeeID int64, qrToken string, userLat, userLng float64) (*models.Shift, error)

	// StartShift opens a shift for the employee. manual marks an admin
	// override; performedBy carries the acting admin's id in that case.
	StartShift(employeeID, locationID int64, manual bool, performedBy *int64) (*models.Shift, error)

	// EndShift closes the employee's open shift. A manual end overwrites
	// the manual attribution even when the shift was started automatically.
	EndShift(employeeID int64, manual bool, performedBy *int64) (*models.Shift, error)

	// GetActiveShift returns the employee's open shift or ErrNoActiveShift.
	GetActiveShift(employeeID int64) (*models.Shift, error)

	GetShifts(filter repositories.ShiftFilter, page, pageSize int) ([]models.Shift, int, error)
}

type shiftService struct {
	shiftRepo    repositories.ShiftRepository
	employeeRepo repositories.EmployeeRepository
	locationSvc  LocationService
	db           *sql.DB

	// Serializes start/end per employee so the precondition check and the
	// mutating write act as one atomic unit. The partial unique index on
	// the shifts table backstops this at the database.
	mu            sync.Mutex
	employeeLocks map[int64]*sync.Mutex
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(sr repositories.ShiftRepository, er repositories.EmployeeRepository, ls LocationService, db *sql.DB) ShiftService {
	return &shiftService{
		shiftRepo:     sr,
		employeeRepo:  er,
		locationSvc:   ls,
		db:            db,
		employeeLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *shiftService) lockForEmployee(employeeID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.employeeLocks[employeeID]
	if !ok {
		lock = &sync.Mutex{}
		s.employeeLocks[employeeID] = lock
	}
	return lock
}

func (s *shiftService) ClockIn(employeeID int64, qrToken string, userLat, userLng float64) (*models.Shift, error) {
	location, err := s.locationSvc.ResolveQRCode(qrToken)
	if err != nil {
		return nil, err
	}

	proximity, err := s.locationSvc.CheckProximity(location.ID, userLat, userLng)
	if err != nil {
		return nil, err
	}
	if !proximity.WithinRange {
		return nil, fmt.Errorf("%w: %.0f m from %s, allowed %.0f m",
			ErrOutOfRange, proximity.Distance, location.Name, proximity.Radius)
	}

	return s.StartShift(employeeID, location.ID, false, nil)
}

func (s *shiftService) StartShift(employeeID, locationID int64, manual bool, performedBy *int64) (*models.Shift, error) {
	if _, err := s.employeeRepo.GetEmployeeByID(employeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, employeeID)
		}
		return nil, fmt.Errorf("failed to validate employee for shift: %w", err)
	}
	if _, err := s.locationSvc.GetLocationByID(locationID); err != nil {
		return nil, err
	}

	lock := s.lockForEmployee(employeeID)
	lock.Lock()
	defer lock.Unlock()

	_, err := s.shiftRepo.GetActiveShiftByEmployee(employeeID)
	if err == nil {
		return nil, fmt.Errorf("%w: employee %d", ErrShiftAlreadyActive, employeeID)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for active shift: %w", err)
	}

	shift := &models.Shift{
		EmployeeID:      employeeID,
		LocationID:      locationID,
		StartTime:       time.Now(),
		ManuallyCreated: manual,
	}
	if manual {
		shift.ManuallyCreatedBy = performedBy
	}

	createdShift, err := s.shiftRepo.CreateShift(s.db, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: employee %d", ErrShiftAlreadyActive, employeeID)
		}
		return nil, fmt.Errorf("failed to create shift in repository: %w", err)
	}
	return createdShift, nil
}

func (s *shiftService) EndShift(employeeID int64, manual bool, performedBy *int64) (*models.Shift, error) {
	lock := s.lockForEmployee(employeeID)
	lock.Lock()
	defer lock.Unlock()

	shift, err := s.shiftRepo.GetActiveShiftByEmployee(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee %d", ErrNoActiveShift, employeeID)
		}
		return nil, fmt.Errorf("failed to look up active shift: %w", err)
	}

	endTime := time.Now()
	shift.EndTime = &endTime
	if manual {
		// An admin force-closing a shift stamps the record, even when the
		// shift was started by the employee.
		shift.ManuallyCreated = true
		shift.ManuallyCreatedBy = performedBy
	}

	endedShift, err := s.shiftRepo.EndShift(s.db, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee %d", ErrNoActiveShift, employeeID)
		}
		return nil, fmt.Errorf("failed to end shift in repository: %w", err)
	}
	return endedShift, nil
}

func (s *shiftService) GetActiveShift(employeeID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetActiveShiftByEmployee(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee %d", ErrNoActiveShift, employeeID)
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShifts(filter repositories.ShiftFilter, page, pageSize int) ([]models.Shift, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	shifts, totalCount, err := s.shiftRepo.GetShifts(filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, totalCount, nil
}
