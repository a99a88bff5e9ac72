package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
	"shifttrack_backend/pkg/geo"
	"shifttrack_backend/pkg/utils"
)

// --- Custom Service Errors for Locations ---
var (
	ErrLocationNotFound       = errors.New("location not found")
	ErrLocationDataValidation = errors.New("location data validation error")
	ErrInvalidQRCode          = errors.New("invalid QR code")
)

// --- Location DTOs ---
type CreateLocationRequest struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius" binding:"required"`
}

type UpdateLocationRequest struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float64 `json:"radius"`
}

// ProximityResult is the outcome of a proximity gate check.
type ProximityResult struct {
	WithinRange bool    `json:"within_range"`
	Distance    float64 `json:"distance"` // meters from the location coordinate
	Radius      float64 `json:"radius"`   // meters allowed
}

// --- LocationService Interface ---
type LocationService interface {
	CreateLocation(req CreateLocationRequest) (*models.Location, error)
	GetLocationByID(locationID int64) (*models.Location, error)
	GetLocations(page, pageSize int, searchTerm *string) ([]models.Location, int, error)
	UpdateLocation(locationID int64, req UpdateLocationRequest) (*models.Location, error)
	DeleteLocation(locationID int64) error

	// ResolveQRCode parses a scanned "location:<id>" token and resolves it
	// against the store. Malformed tokens and unknown ids both fail with
	// ErrInvalidQRCode, before any proximity work happens.
	ResolveQRCode(token string) (*models.Location, error)

	// CheckProximity is the advisory proximity gate: it reports whether the
	// reading lies within the location's radius (boundary inclusive) but does
	// not itself start a shift. A missing location fails closed.
	CheckProximity(locationID int64, userLat, userLng float64) (*ProximityResult, error)
}

type locationService struct {
	locationRepo repositories.LocationRepository
	db           *sql.DB
}

// NewLocationService creates a new instance of LocationService.
func NewLocationService(lr repositories.LocationRepository, db *sql.DB) LocationService {
	return &locationService{
		locationRepo: lr,
		db:           db,
	}
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrLocationDataValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrLocationDataValidation)
	}
	return nil
}

func (s *locationService) CreateLocation(req CreateLocationRequest) (*models.Location, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrLocationDataValidation)
	}
	if utils.IsEmpty(req.Address) {
		return nil, fmt.Errorf("%w: address cannot be empty", ErrLocationDataValidation)
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}
	if req.Radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be a positive number of meters", ErrLocationDataValidation)
	}

	location := &models.Location{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Radius:    req.Radius,
	}

	createdLocation, err := s.locationRepo.CreateLocation(s.db, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create location in repository: %w", err)
	}
	return createdLocation, nil
}

func (s *locationService) GetLocationByID(locationID int64) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByID(locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location by ID: %w", err)
	}
	return location, nil
}

func (s *locationService) GetLocations(page, pageSize int, searchTerm *string) ([]models.Location, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	locations, totalCount, err := s.locationRepo.GetLocations(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get locations: %w", err)
	}
	return locations, totalCount, nil
}

func (s *locationService) UpdateLocation(locationID int64, req UpdateLocationRequest) (*models.Location, error) {
	location, err := s.locationRepo.GetLocationByID(locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to find location for update: %w", err)
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrLocationDataValidation)
		}
		location.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		if utils.IsEmpty(*req.Address) {
			return nil, fmt.Errorf("%w: address cannot be empty if provided", ErrLocationDataValidation)
		}
		location.Address = strings.TrimSpace(*req.Address)
	}
	newLat := location.Latitude
	newLng := location.Longitude
	if req.Latitude != nil {
		newLat = *req.Latitude
	}
	if req.Longitude != nil {
		newLng = *req.Longitude
	}
	if err := validateCoordinates(newLat, newLng); err != nil {
		return nil, err
	}
	location.Latitude = newLat
	location.Longitude = newLng
	if req.Radius != nil {
		if *req.Radius <= 0 {
			return nil, fmt.Errorf("%w: radius must be a positive number of meters", ErrLocationDataValidation)
		}
		location.Radius = *req.Radius
	}

	updatedLocation, err := s.locationRepo.UpdateLocation(s.db, location)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to update location in repository: %w", err)
	}
	return updatedLocation, nil
}

// DeleteLocation removes the location record only. Historical shifts keep
// referencing the deleted id; history views show a placeholder name.
func (s *locationService) DeleteLocation(locationID int64) error {
	err := s.locationRepo.DeleteLocation(s.db, locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

func (s *locationService) ResolveQRCode(token string) (*models.Location, error) {
	locationID, err := models.ParseLocationQRCode(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQRCode, err)
	}

	location, err := s.locationRepo.GetLocationByID(locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown location id %d", ErrInvalidQRCode, locationID)
		}
		return nil, fmt.Errorf("failed to resolve QR code: %w", err)
	}
	return location, nil
}

func (s *locationService) CheckProximity(locationID int64, userLat, userLng float64) (*ProximityResult, error) {
	location, err := s.locationRepo.GetLocationByID(locationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location for proximity check: %w", err)
	}

	distance := geo.Distance(location.Latitude, location.Longitude, userLat, userLng)
	return &ProximityResult{
		WithinRange: distance <= location.Radius,
		Distance:    distance,
		Radius:      location.Radius,
	}, nil
}
