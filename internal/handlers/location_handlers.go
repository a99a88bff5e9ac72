package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/services"
	"shifttrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LocationHandler holds the location service.
type LocationHandler struct {
	locationService services.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(ls services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: ls}
}

// CreateLocation handles the creation of a new location. The QR token is
// derived from the generated id and returned in the response.
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req services.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateLocation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	location, err := h.locationService.CreateLocation(req)
	if err != nil {
		utils.LogError(err, "CreateLocation: Error from locationService.CreateLocation")
		if errors.Is(err, services.ErrLocationDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create location.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, location)
}

// GetLocations handles fetching all locations with pagination and search.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	searchTerm := c.Query("search")

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var pSearchTerm *string
	if searchTerm != "" {
		pSearchTerm = &searchTerm
	}

	locations, totalCount, err := h.locationService.GetLocations(page, pageSize, pSearchTerm)
	if err != nil {
		utils.LogError(err, "GetLocations: Error from locationService.GetLocations")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch locations.", "Internal error"))
		return
	}

	if locations == nil {
		locations = []models.Location{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      locations,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetLocationByID handles fetching a single location by ID.
func (h *LocationHandler) GetLocationByID(c *gin.Context) {
	idStr := c.Param("id")
	locationID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid location ID format.", err.Error()))
		return
	}

	location, err := h.locationService.GetLocationByID(locationID)
	if err != nil {
		utils.LogError(err, "GetLocationByID: Error from locationService.GetLocationByID for ID "+idStr)
		if errors.Is(err, services.ErrLocationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch location.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, location)
}

// UpdateLocation handles updating a location.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	idStr := c.Param("id")
	locationID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid location ID format.", err.Error()))
		return
	}

	var req services.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateLocation: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	location, err := h.locationService.UpdateLocation(locationID, req)
	if err != nil {
		utils.LogError(err, "UpdateLocation: Error from locationService.UpdateLocation for ID "+idStr)
		if errors.Is(err, services.ErrLocationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrLocationDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update location.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation handles deleting a location. Historical shifts keep
// referencing the deleted id.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	idStr := c.Param("id")
	locationID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid location ID format.", err.Error()))
		return
	}

	err = h.locationService.DeleteLocation(locationID)
	if err != nil {
		utils.LogError(err, "DeleteLocation: Error from locationService.DeleteLocation for ID "+idStr)
		if errors.Is(err, services.ErrLocationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete location.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

// CheckProximity handles the advisory proximity gate check for a location.
func (h *LocationHandler) CheckProximity(c *gin.Context) {
	idStr := c.Param("id")
	locationID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid location ID format.", err.Error()))
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "lat and lng query parameters are required.", ""))
		return
	}

	result, err := h.locationService.CheckProximity(locationID, lat, lng)
	if err != nil {
		utils.LogError(err, "CheckProximity: Error from locationService.CheckProximity for ID "+idStr)
		if errors.Is(err, services.ErrLocationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check proximity.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
