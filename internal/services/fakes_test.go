package services

import (
	"fmt"
	"sync"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
)

// In-memory repository fakes. The shift fake mirrors the database's
// partial unique index: a second open shift for the same employee is
// rejected with ErrDuplicateKey.

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	nextID    int64
	employees map[int64]models.Employee
	shifts    *fakeShiftRepo
}

type fakeLocationRepo struct {
	mu        sync.Mutex
	nextID    int64
	locations map[int64]models.Location
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	nextID int64
	shifts []models.Shift
}

func newFakes() (*fakeEmployeeRepo, *fakeLocationRepo, *fakeShiftRepo) {
	shifts := &fakeShiftRepo{}
	employees := &fakeEmployeeRepo{employees: make(map[int64]models.Employee), shifts: shifts}
	locations := &fakeLocationRepo{locations: make(map[int64]models.Location)}
	return employees, locations, shifts
}

// --- fakeEmployeeRepo ---

func (r *fakeEmployeeRepo) CreateEmployee(_ repositories.SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.Email == employee.Email {
			return nil, fmt.Errorf("%w: email %s", repositories.ErrDuplicateKey, employee.Email)
		}
	}
	r.nextID++
	employee.ID = r.nextID
	r.employees[employee.ID] = *employee
	return employee, nil
}

func (r *fakeEmployeeRepo) GetEmployeeByID(id int64) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee, ok := r.employees[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &employee, nil
}

func (r *fakeEmployeeRepo) GetEmployeeByEmail(email string) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, employee := range r.employees {
		if employee.Email == email {
			found := employee
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeEmployeeRepo) GetEmployees(page, pageSize int, _ *string) ([]models.Employee, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.Employee, 0, len(r.employees))
	for _, employee := range r.employees {
		all = append(all, employee)
	}
	return all, len(all), nil
}

func (r *fakeEmployeeRepo) GetActiveEmployees() ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := []models.Employee{}
	for _, employee := range r.employees {
		if r.shifts != nil && r.shifts.hasActive(employee.ID) {
			active = append(active, employee)
		}
	}
	return active, nil
}

func (r *fakeEmployeeRepo) UpdateEmployee(_ repositories.SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[employee.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.employees[employee.ID] = *employee
	return employee, nil
}

func (r *fakeEmployeeRepo) DeleteEmployee(_ repositories.SQLExecutor, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.employees, id)
	return nil
}

// --- fakeLocationRepo ---

func (r *fakeLocationRepo) CreateLocation(_ repositories.SQLExecutor, location *models.Location) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	location.ID = r.nextID
	location.QRCode = models.QRCodeForLocation(location.ID)
	r.locations[location.ID] = *location
	return location, nil
}

func (r *fakeLocationRepo) GetLocationByID(id int64) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &location, nil
}

func (r *fakeLocationRepo) GetLocations(page, pageSize int, _ *string) ([]models.Location, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.Location, 0, len(r.locations))
	for _, location := range r.locations {
		all = append(all, location)
	}
	return all, len(all), nil
}

func (r *fakeLocationRepo) UpdateLocation(_ repositories.SQLExecutor, location *models.Location) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[location.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.locations[location.ID] = *location
	return location, nil
}

func (r *fakeLocationRepo) DeleteLocation(_ repositories.SQLExecutor, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

// --- fakeShiftRepo ---

func (r *fakeShiftRepo) hasActive(employeeID int64) bool {
	for _, shift := range r.shifts {
		if shift.EmployeeID == employeeID && shift.EndTime == nil {
			return true
		}
	}
	return false
}

func (r *fakeShiftRepo) CreateShift(_ repositories.SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasActive(shift.EmployeeID) {
		return nil, fmt.Errorf("%w: employee %d already has an active shift", repositories.ErrDuplicateKey, shift.EmployeeID)
	}
	r.nextID++
	shift.ID = r.nextID
	r.shifts = append(r.shifts, *shift)
	return shift, nil
}

func (r *fakeShiftRepo) GetShiftByID(id int64) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, shift := range r.shifts {
		if shift.ID == id {
			found := shift
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeShiftRepo) GetActiveShiftByEmployee(employeeID int64) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, shift := range r.shifts {
		if shift.EmployeeID == employeeID && shift.EndTime == nil {
			found := shift
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeShiftRepo) GetShifts(filter repositories.ShiftFilter, page, pageSize int) ([]models.Shift, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []models.Shift{}
	for _, shift := range r.shifts {
		if filter.EmployeeID != nil && shift.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartTimeFrom != nil && shift.StartTime.Before(*filter.StartTimeFrom) {
			continue
		}
		if filter.StartTimeTo != nil && !shift.StartTime.Before(*filter.StartTimeTo) {
			continue
		}
		if filter.OnlyCompleted && shift.EndTime == nil {
			continue
		}
		matched = append(matched, shift)
	}
	total := len(matched)
	if pageSize > 0 {
		start := (page - 1) * pageSize
		if start > total {
			start = total
		}
		end := start + pageSize
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *fakeShiftRepo) EndShift(_ repositories.SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.shifts {
		if r.shifts[i].ID == shift.ID && r.shifts[i].EndTime == nil {
			r.shifts[i] = *shift
			return shift, nil
		}
	}
	return nil, repositories.ErrNotFound
}
