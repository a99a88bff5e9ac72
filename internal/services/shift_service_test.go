package services

import (
	"sync"
	"testing"
	"time"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(v float64) *float64 { return &v }

func seedEmployee(t *testing.T, er *fakeEmployeeRepo, name, email string) *models.Employee {
	t.Helper()
	employee, err := er.CreateEmployee(nil, &models.Employee{
		Name:       name,
		Email:      email,
		Role:       models.RoleEmployee,
		HourlyRate: rate(500),
	})
	require.NoError(t, err)
	return employee
}

func seedLocation(t *testing.T, lr *fakeLocationRepo, lat, lng, radius float64) *models.Location {
	t.Helper()
	location, err := lr.CreateLocation(nil, &models.Location{
		Name:      "Main Office",
		Address:   "1 Main St",
		Latitude:  lat,
		Longitude: lng,
		Radius:    radius,
	})
	require.NoError(t, err)
	return location
}

func newShiftServiceForTest(t *testing.T) (ShiftService, *fakeEmployeeRepo, *fakeLocationRepo, *fakeShiftRepo) {
	t.Helper()
	er, lr, sr := newFakes()
	ls := NewLocationService(lr, nil)
	return NewShiftService(sr, er, ls, nil), er, lr, sr
}

func TestStartShiftAllowsOnlyOneActive(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	shift, err := svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)
	assert.True(t, shift.Active())
	assert.False(t, shift.ManuallyCreated)
	assert.Nil(t, shift.ManuallyCreatedBy)

	_, err = svc.StartShift(employee.ID, location.ID, false, nil)
	require.ErrorIs(t, err, ErrShiftAlreadyActive)
}

func TestStartShiftAfterEndOpensNewShift(t *testing.T) {
	svc, er, lr, sr := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	first, err := svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)

	ended, err := svc.EndShift(employee.ID, false, nil)
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)
	assert.Equal(t, first.ID, ended.ID)

	second, err := svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Both shifts stay in the ledger.
	shifts, total, err := sr.GetShifts(repositories.ShiftFilter{EmployeeID: &employee.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, shifts, 2)
}

func TestEndShiftWithoutActiveShiftFails(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	_, err := svc.EndShift(employee.ID, false, nil)
	require.ErrorIs(t, err, ErrNoActiveShift)

	_, err = svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)
	_, err = svc.EndShift(employee.ID, false, nil)
	require.NoError(t, err)

	_, err = svc.EndShift(employee.ID, false, nil)
	require.ErrorIs(t, err, ErrNoActiveShift)
}

func TestManualStartCarriesAttribution(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	admin := seedEmployee(t, er, "Boss", "boss@example.com")
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	shift, err := svc.StartShift(employee.ID, location.ID, true, &admin.ID)
	require.NoError(t, err)
	assert.True(t, shift.ManuallyCreated)
	require.NotNil(t, shift.ManuallyCreatedBy)
	assert.Equal(t, admin.ID, *shift.ManuallyCreatedBy)

	// A normal clock-out keeps the start attribution.
	ended, err := svc.EndShift(employee.ID, false, nil)
	require.NoError(t, err)
	assert.True(t, ended.ManuallyCreated)
	require.NotNil(t, ended.ManuallyCreatedBy)
	assert.Equal(t, admin.ID, *ended.ManuallyCreatedBy)
}

func TestManualEndOverwritesAttribution(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	admin := seedEmployee(t, er, "Boss", "boss@example.com")
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	shift, err := svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)
	assert.False(t, shift.ManuallyCreated)

	ended, err := svc.EndShift(employee.ID, true, &admin.ID)
	require.NoError(t, err)
	assert.True(t, ended.ManuallyCreated)
	require.NotNil(t, ended.ManuallyCreatedBy)
	assert.Equal(t, admin.ID, *ended.ManuallyCreatedBy)
}

func TestStartShiftValidatesReferences(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	_, err := svc.StartShift(999, location.ID, false, nil)
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.StartShift(employee.ID, 999, false, nil)
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestClockInWithinRangeStartsShift(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	shift, err := svc.ClockIn(employee.ID, location.QRCode, 40.0, -74.0)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, shift.EmployeeID)
	assert.Equal(t, location.ID, shift.LocationID)
	assert.False(t, shift.ManuallyCreated)
	assert.True(t, shift.Active())
}

func TestClockInOutOfRangeCreatesNoShift(t *testing.T) {
	svc, er, lr, sr := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	// One degree of latitude is roughly 111 km away.
	_, err := svc.ClockIn(employee.ID, location.QRCode, 41.0, -74.0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, total, err := sr.GetShifts(repositories.ShiftFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = svc.GetActiveShift(employee.ID)
	require.ErrorIs(t, err, ErrNoActiveShift)
}

func TestClockInRejectsBadTokens(t *testing.T) {
	svc, er, lr, sr := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	seedLocation(t, lr, 40.0, -74.0, 100)

	for _, token := range []string{"", "garbage", "location:", "location:abc", "location:-3", "location:999"} {
		_, err := svc.ClockIn(employee.ID, token, 40.0, -74.0)
		require.ErrorIs(t, err, ErrInvalidQRCode, "token %q", token)
	}

	_, total, err := sr.GetShifts(repositories.ShiftFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestConcurrentStartsProduceOneShift(t *testing.T) {
	svc, er, lr, sr := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.StartShift(employee.ID, location.ID, false, nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorIs(t, err, ErrShiftAlreadyActive)
		}
	}
	assert.Equal(t, 1, successes)

	_, total, err := sr.GetShifts(repositories.ShiftFilter{EmployeeID: &employee.ID}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetActiveShiftReturnsOpenShift(t *testing.T) {
	svc, er, lr, _ := newShiftServiceForTest(t)
	employee := seedEmployee(t, er, "Alice", "alice@example.com")
	location := seedLocation(t, lr, 40.0, -74.0, 100)

	started, err := svc.StartShift(employee.ID, location.ID, false, nil)
	require.NoError(t, err)

	active, err := svc.GetActiveShift(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, active.ID)
	assert.True(t, active.Active())
}

func TestGetShiftsFiltersByEmployeeAndWindow(t *testing.T) {
	svc, er, lr, sr := newShiftServiceForTest(t)
	alice := seedEmployee(t, er, "Alice", "alice@example.com")
	bob := seedEmployee(t, er, "Bob", "bob@example.com")
	seedLocation(t, lr, 40.0, -74.0, 100)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	for i, employeeID := range []int64{alice.ID, alice.ID, bob.ID} {
		start := base.AddDate(0, 0, i)
		end := start.Add(8 * time.Hour)
		_, err := sr.CreateShift(nil, &models.Shift{EmployeeID: employeeID, LocationID: 1, StartTime: start, EndTime: &end})
		require.NoError(t, err)
	}

	shifts, total, err := svc.GetShifts(repositories.ShiftFilter{EmployeeID: &alice.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, shifts, 2)

	from := base.AddDate(0, 0, 1)
	shifts, total, err = svc.GetShifts(repositories.ShiftFilter{StartTimeFrom: &from}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, shift := range shifts {
		assert.False(t, shift.StartTime.Before(from))
	}
}
