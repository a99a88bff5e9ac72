package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shifttrack_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ShiftFilter narrows shift ledger listings. Zero-value fields are ignored.
type ShiftFilter struct {
	EmployeeID    *int64
	StartTimeFrom *time.Time
	StartTimeTo   *time.Time
	OnlyCompleted bool
}

// ShiftRepository defines the interface for shift ledger database operations.
// The ledger is append-mostly: shifts are created, ended exactly once, and
// never deleted.
type ShiftRepository interface {
	CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(id int64) (*models.Shift, error)
	GetActiveShiftByEmployee(employeeID int64) (*models.Shift, error)
	GetShifts(filter ShiftFilter, page, pageSize int) ([]models.Shift, int, error)
	EndShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func scanShiftRow(row scanner) (*models.Shift, error) {
	var shift models.Shift
	var endTime sql.NullTime
	var manuallyCreatedBy sql.NullInt64

	err := row.Scan(
		&shift.ID, &shift.EmployeeID, &shift.LocationID,
		&shift.StartTime, &endTime, &shift.ManuallyCreated, &manuallyCreatedBy,
		&shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
	}
	if endTime.Valid {
		shift.EndTime = &endTime.Time
	}
	if manuallyCreatedBy.Valid {
		shift.ManuallyCreatedBy = &manuallyCreatedBy.Int64
	}
	return &shift, nil
}

// CreateShift appends a new open shift to the ledger. The partial unique
// index uq_shifts_one_active rejects a second open shift for the same
// employee; that violation surfaces as ErrDuplicateKey.
func (r *shiftRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts (employee_id, location_id, start_time, end_time, manually_created, manually_created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, NULL, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	shift.CreatedAt = currentTime
	shift.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		shift.EmployeeID, shift.LocationID, shift.StartTime,
		shift.ManuallyCreated, shift.ManuallyCreatedBy,
		shift.CreatedAt, shift.UpdatedAt,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: employee %d already has an active shift", ErrDuplicateKey, shift.EmployeeID)
		}
		return nil, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

func (r *shiftRepository) GetShiftByID(id int64) (*models.Shift, error) {
	query := `SELECT id, employee_id, location_id, start_time, end_time, manually_created, manually_created_by, created_at, updated_at
	          FROM shifts WHERE id = $1`
	return scanShiftRow(r.db.QueryRow(query, id))
}

// GetActiveShiftByEmployee returns the employee's open shift, or ErrNotFound.
func (r *shiftRepository) GetActiveShiftByEmployee(employeeID int64) (*models.Shift, error) {
	query := `SELECT id, employee_id, location_id, start_time, end_time, manually_created, manually_created_by, created_at, updated_at
	          FROM shifts WHERE employee_id = $1 AND end_time IS NULL`
	return scanShiftRow(r.db.QueryRow(query, employeeID))
}

// GetShifts lists ledger entries joined with employee and location names.
// LEFT JOINs keep rows whose employee or location has been deleted; the
// joined name comes back nil in that case. pageSize <= 0 disables paging.
func (r *shiftRepository) GetShifts(filter ShiftFilter, page, pageSize int) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    s.id, s.employee_id, s.location_id, s.start_time, s.end_time,
	    s.manually_created, s.manually_created_by, s.created_at, s.updated_at,
	    e.name as employee_name, l.name as location_name,
	    COUNT(*) OVER() as total_count
	  FROM shifts s
	  LEFT JOIN employees e ON s.employee_id = e.id
	  LEFT JOIN locations l ON s.location_id = l.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argCount))
		args = append(args, *filter.EmployeeID)
		argCount++
	}
	if filter.StartTimeFrom != nil {
		conditions = append(conditions, fmt.Sprintf("s.start_time >= $%d", argCount))
		args = append(args, *filter.StartTimeFrom)
		argCount++
	}
	if filter.StartTimeTo != nil {
		conditions = append(conditions, fmt.Sprintf("s.start_time < $%d", argCount))
		args = append(args, *filter.StartTimeTo)
		argCount++
	}
	if filter.OnlyCompleted {
		conditions = append(conditions, "s.end_time IS NOT NULL")
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY s.id ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shift models.Shift
		var endTime sql.NullTime
		var manuallyCreatedBy sql.NullInt64
		var employeeName, locationName sql.NullString
		var currentTotalCount int

		if err := rows.Scan(
			&shift.ID, &shift.EmployeeID, &shift.LocationID,
			&shift.StartTime, &endTime, &shift.ManuallyCreated, &manuallyCreatedBy,
			&shift.CreatedAt, &shift.UpdatedAt,
			&employeeName, &locationName,
			&currentTotalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		totalCount = currentTotalCount

		if endTime.Valid {
			shift.EndTime = &endTime.Time
		}
		if manuallyCreatedBy.Valid {
			shift.ManuallyCreatedBy = &manuallyCreatedBy.Int64
		}
		if employeeName.Valid {
			name := employeeName.String
			shift.EmployeeName = &name
		}
		if locationName.Valid {
			name := locationName.String
			shift.LocationName = &name
		}
		shifts = append(shifts, shift)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

// EndShift closes an open shift, writing end_time and the manual
// attribution fields. The end_time IS NULL guard makes a second end of
// the same shift surface as ErrNotFound instead of rewriting history.
func (r *shiftRepository) EndShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts SET
	            end_time = $1, manually_created = $2, manually_created_by = $3, updated_at = $4
	          WHERE id = $5 AND end_time IS NULL
	          RETURNING updated_at`

	shift.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		shift.EndTime, shift.ManuallyCreated, shift.ManuallyCreatedBy,
		shift.UpdatedAt, shift.ID,
	).Scan(&shift.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: ending shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	return shift, nil
}
