package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shifttrack_backend/internal/middleware"
	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/repositories"
	"shifttrack_backend/internal/services"
	"shifttrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftHandler holds the shift service.
type ShiftHandler struct {
	shiftService services.ShiftService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(ss services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: ss}
}

// ClockInRequest carries the scanned QR token and the device's GPS reading.
// Coordinates are pointers so a reading of exactly 0 still binds; a missing
// reading (denied or timed-out geolocation) fails validation and no shift
// is started.
type ClockInRequest struct {
	QRCode    string   `json:"qr_code" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// ManualStartRequest is the admin override for starting a shift.
type ManualStartRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
	LocationID int64 `json:"location_id" binding:"required"`
}

// ManualEndRequest is the admin override for ending a shift.
type ManualEndRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

func respondShiftError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from shiftService")
	switch {
	case errors.Is(err, services.ErrInvalidQRCode):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInvalidQRCode, "Invalid code.", err.Error()))
	case errors.Is(err, services.ErrLocationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Location not found.", err.Error()))
	case errors.Is(err, services.ErrEmployeeNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
	case errors.Is(err, services.ErrOutOfRange):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeOutOfRange, "You are too far from the work location.", err.Error()))
	case errors.Is(err, services.ErrShiftAlreadyActive):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee already has an active shift.", err.Error()))
	case errors.Is(err, services.ErrNoActiveShift):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "No active shift found.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process shift request.", "Internal error"))
	}
}

// ClockIn starts a shift for the authenticated employee after the QR token
// resolves and the proximity gate passes.
func (h *ShiftHandler) ClockIn(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "ClockIn: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.ClockIn(actorID, req.QRCode, *req.Latitude, *req.Longitude)
	if err != nil {
		respondShiftError(c, err, "ClockIn")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// ClockOut ends the authenticated employee's active shift.
func (h *ShiftHandler) ClockOut(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	shift, err := h.shiftService.EndShift(actorID, false, nil)
	if err != nil {
		respondShiftError(c, err, "ClockOut")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// ManualStart lets an admin open a shift on an employee's behalf. The
// record carries the acting admin's id.
func (h *ShiftHandler) ManualStart(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req ManualStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "ManualStart: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.StartShift(req.EmployeeID, req.LocationID, true, &actorID)
	if err != nil {
		respondShiftError(c, err, "ManualStart")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// ManualEnd lets an admin force-close an employee's shift. Attribution is
// overwritten even when the shift was started by the employee.
func (h *ShiftHandler) ManualEnd(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req ManualEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "ManualEnd: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shift, err := h.shiftService.EndShift(req.EmployeeID, true, &actorID)
	if err != nil {
		respondShiftError(c, err, "ManualEnd")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// GetActiveShift returns the authenticated employee's open shift.
func (h *ShiftHandler) GetActiveShift(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	shift, err := h.shiftService.GetActiveShift(actorID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveShift) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No active shift.", err.Error()))
			return
		}
		utils.LogError(err, "GetActiveShift: Error from shiftService.GetActiveShift")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch active shift.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, shift)
}

func parseShiftTimeQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetShifts lists the shift ledger. Admins see every employee; everyone
// else is restricted to their own history.
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var filter repositories.ShiftFilter

	role, _ := middleware.ActorRole(c)
	if role == models.RoleAdmin {
		if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
			id, err := strconv.ParseInt(employeeIDStr, 10, 64)
			if err != nil {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee_id format.", err.Error()))
				return
			}
			filter.EmployeeID = &id
		}
	} else {
		filter.EmployeeID = &actorID
	}

	from, err := parseShiftTimeQuery(c.Query("start_time_from"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start_time_from format.", err.Error()))
		return
	}
	to, err := parseShiftTimeQuery(c.Query("start_time_to"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start_time_to format.", err.Error()))
		return
	}
	filter.StartTimeFrom = from
	filter.StartTimeTo = to
	filter.OnlyCompleted = c.Query("only_completed") == "true"

	shifts, totalCount, err := h.shiftService.GetShifts(filter, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetShifts: Error from shiftService.GetShifts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shifts.", "Internal error"))
		return
	}

	if shifts == nil {
		shifts = []models.Shift{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      shifts,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}
