package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shifttrack_backend/internal/models"
)

// LocationRepository defines the interface for location related database operations.
type LocationRepository interface {
	CreateLocation(executor SQLExecutor, location *models.Location) (*models.Location, error)
	GetLocationByID(id int64) (*models.Location, error)
	GetLocations(page, pageSize int, searchTerm *string) ([]models.Location, int, error)
	UpdateLocation(executor SQLExecutor, location *models.Location) (*models.Location, error)
	DeleteLocation(executor SQLExecutor, id int64) error
}

type locationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *sql.DB) LocationRepository {
	return &locationRepository{db: db}
}

const locationColumns = `id, name, address, latitude, longitude, radius, qr_code, created_at, updated_at`

func scanLocationRow(row scanner) (*models.Location, error) {
	var location models.Location
	err := row.Scan(
		&location.ID, &location.Name, &location.Address,
		&location.Latitude, &location.Longitude, &location.Radius,
		&location.QRCode, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning location: %v", ErrDatabaseError, err)
	}
	return &location, nil
}

// CreateLocation inserts the location and derives its QR token from the
// generated id. The token is set in the same call so a created location
// is never observable without one.
func (r *locationRepository) CreateLocation(executor SQLExecutor, location *models.Location) (*models.Location, error) {
	query := `INSERT INTO locations (name, address, latitude, longitude, radius, qr_code, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, '', $6, $7)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	location.CreatedAt = currentTime
	location.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		location.Name, location.Address, location.Latitude, location.Longitude,
		location.Radius, location.CreatedAt, location.UpdatedAt,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: creating location: %v", ErrDatabaseError, err)
	}

	location.QRCode = models.QRCodeForLocation(location.ID)
	if _, err := executor.Exec(`UPDATE locations SET qr_code = $1 WHERE id = $2`, location.QRCode, location.ID); err != nil {
		return nil, fmt.Errorf("%w: setting location QR code: %v", ErrDatabaseError, err)
	}
	return location, nil
}

func (r *locationRepository) GetLocationByID(id int64) (*models.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return scanLocationRow(r.db.QueryRow(query, id))
}

func (r *locationRepository) GetLocations(page, pageSize int, searchTerm *string) ([]models.Location, int, error) {
	locations := []models.Location{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + locationColumns + `,
	    COUNT(*) OVER() as total_count
	  FROM locations`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR LOWER(address) ILIKE $%d)", argCount, argCount))
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
		return nil, 0, fmt.Errorf("%w: querying locations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var location models.Location
		var currentRowTotalCount int

		if err := rows.Scan(
			&location.ID, &location.Name, &location.Address,
			&location.Latitude, &location.Longitude, &location.Radius,
			&location.QRCode, &location.CreatedAt, &location.UpdatedAt,
			&currentRowTotalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning location from list: %v", ErrDatabaseError, err)
		}
		totalCount = currentRowTotalCount
		locations = append(locations, location)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating location rows: %v", ErrDatabaseError, err)
	}
	return locations, totalCount, nil
}

func (r *locationRepository) UpdateLocation(executor SQLExecutor, location *models.Location) (*models.Location, error) {
	query := `UPDATE locations SET
	            name = $1, address = $2, latitude = $3, longitude = $4, radius = $5, updated_at = $6
	          WHERE id = $7
	          RETURNING updated_at`

	location.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		location.Name, location.Address, location.Latitude, location.Longitude,
		location.Radius, location.UpdatedAt, location.ID,
	).Scan(&location.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating location ID %d: %v", ErrDatabaseError, location.ID, err)
	}
	return location, nil
}

// DeleteLocation removes the location record. Historical shifts referencing
// the id are kept; history views resolve the dangling reference to a placeholder.
func (r *locationRepository) DeleteLocation(executor SQLExecutor, id int64) error {
	query := `DELETE FROM locations WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting location ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
