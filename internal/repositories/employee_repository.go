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

// EmployeeRepository defines the interface for employee related database operations.
type EmployeeRepository interface {
	CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error)
	GetEmployeeByID(id int64) (*models.Employee, error)
	GetEmployeeByEmail(email string) (*models.Employee, error)
	GetEmployees(page, pageSize int, searchTerm *string) ([]models.Employee, int, error)
	GetActiveEmployees() ([]models.Employee, error)
	UpdateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error)
	DeleteEmployee(executor SQLExecutor, id int64) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, name, email, role, hourly_rate, password_hash, created_at, updated_at`

func scanEmployeeRow(row scanner) (*models.Employee, error) {
	var employee models.Employee
	var hourlyRate sql.NullFloat64

	err := row.Scan(
		&employee.ID, &employee.Name, &employee.Email, &employee.Role,
		&hourlyRate, &employee.PasswordHash, &employee.CreatedAt, &employee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
	}
	if hourlyRate.Valid {
		employee.HourlyRate = &hourlyRate.Float64
	}
	return &employee, nil
}

func (r *employeeRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	query := `INSERT INTO employees (name, email, role, hourly_rate, password_hash, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	employee.CreatedAt = currentTime
	employee.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		employee.Name, employee.Email, employee.Role, employee.HourlyRate,
		employee.PasswordHash, employee.CreatedAt, employee.UpdatedAt,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrDuplicateKey, employee.Email)
		}
		return nil, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee, nil
}

func (r *employeeRepository) GetEmployeeByID(id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployeeRow(r.db.QueryRow(query, id))
}

func (r *employeeRepository) GetEmployeeByEmail(email string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`
	return scanEmployeeRow(r.db.QueryRow(query, email))
}

func (r *employeeRepository) GetEmployees(page, pageSize int, searchTerm *string) ([]models.Employee, int, error) {
	employees := []models.Employee{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + employeeColumns + `,
	    COUNT(*) OVER() as total_count
	  FROM employees`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(email) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name ASC")

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
		return nil, 0, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var employee models.Employee
		var hourlyRate sql.NullFloat64
		var currentRowTotalCount int

		err := rows.Scan(
			&employee.ID, &employee.Name, &employee.Email, &employee.Role,
			&hourlyRate, &employee.PasswordHash, &employee.CreatedAt, &employee.UpdatedAt,
			&currentRowTotalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning employee from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount

		if hourlyRate.Valid {
			employee.HourlyRate = &hourlyRate.Float64
		}
		employees = append(employees, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, totalCount, nil
}

// GetActiveEmployees returns employees that currently have an open shift.
func (r *employeeRepository) GetActiveEmployees() ([]models.Employee, error) {
	query := `SELECT e.id, e.name, e.email, e.role, e.hourly_rate, e.password_hash, e.created_at, e.updated_at
	          FROM employees e
	          JOIN shifts s ON s.employee_id = e.id AND s.end_time IS NULL
	          ORDER BY e.name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying active employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var employee models.Employee
		var hourlyRate sql.NullFloat64
		if err := rows.Scan(
			&employee.ID, &employee.Name, &employee.Email, &employee.Role,
			&hourlyRate, &employee.PasswordHash, &employee.CreatedAt, &employee.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning active employee: %v", ErrDatabaseError, err)
		}
		if hourlyRate.Valid {
			employee.HourlyRate = &hourlyRate.Float64
		}
		employees = append(employees, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active employee rows: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

func (r *employeeRepository) UpdateEmployee(executor SQLExecutor, employee *models.Employee) (*models.Employee, error) {
	query := `UPDATE employees SET
	            name = $1, email = $2, role = $3, hourly_rate = $4, password_hash = $5, updated_at = $6
	          WHERE id = $7
	          RETURNING updated_at`

	employee.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		employee.Name, employee.Email, employee.Role, employee.HourlyRate,
		employee.PasswordHash, employee.UpdatedAt, employee.ID,
	).Scan(&employee.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrDuplicateKey, employee.Email)
		}
		return nil, fmt.Errorf("%w: updating employee ID %d: %v", ErrDatabaseError, employee.ID, err)
	}
	return employee, nil
}

// DeleteEmployee removes the employee record. Historical shifts referencing
// the id are kept; reporting resolves the dangling reference to a placeholder.
func (r *employeeRepository) DeleteEmployee(executor SQLExecutor, id int64) error {
	query := `DELETE FROM employees WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
