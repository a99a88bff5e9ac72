package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shifttrack_backend/internal/middleware"
	"shifttrack_backend/internal/models"
	"shifttrack_backend/internal/services"
	"shifttrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GenerateReport derives a payroll-style report from the shift ledger.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	reportType := c.DefaultQuery("type", models.ReportTypeDaily)

	if startDate == "" || endDate == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "start_date and end_date query parameters are required.", ""))
		return
	}

	var employeeID *int64
	if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
		id, err := strconv.ParseInt(employeeIDStr, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid employee_id format.", err.Error()))
			return
		}
		employeeID = &id
	}

	report, err := h.reportService.GenerateReport(startDate, endDate, reportType, employeeID)
	if err != nil {
		utils.LogError(err, "GenerateReport: Error from reportService.GenerateReport")
		if errors.Is(err, services.ErrReportDateFormat) || errors.Is(err, services.ErrReportValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to generate report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary provides live hour totals and the active employee
// list. Admins see the whole workforce; everyone else sees their own hours.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var employeeID *int64
	role, _ := middleware.ActorRole(c)
	if role != models.RoleAdmin {
		employeeID = &actorID
	}

	summary, err := h.reportService.GetDashboardSummary(employeeID)
	if err != nil {
		utils.LogError(err, "GetDashboardSummary: Error from reportService.GetDashboardSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
