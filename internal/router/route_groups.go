package router

import (
	"shifttrack_backend/internal/handlers"
	"shifttrack_backend/internal/middleware"
	"shifttrack_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupEmployeeRoutes sets up the employee routes.
// Note: all employee management is admin-only; an employee reads their own
// record through /auth/me.
func SetupEmployeeRoutes(authenticatedGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	employeeRoutes := authenticatedGroup.Group("/employees")
	employeeRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		employeeRoutes.POST("", employeeHandler.CreateEmployee)
		employeeRoutes.GET("", employeeHandler.GetEmployees)
		employeeRoutes.GET("/:id", employeeHandler.GetEmployeeByID)
		employeeRoutes.PUT("/:id", employeeHandler.UpdateEmployee)
		employeeRoutes.DELETE("/:id", employeeHandler.DeleteEmployee)
	}
}

// SetupLocationRoutes sets up the location routes.
// Writes are admin-only; reads (including the proximity gate) are open to
// any authenticated employee so the clock-in flow can use them.
func SetupLocationRoutes(authenticatedGroup *gin.RouterGroup, locationHandler *handlers.LocationHandler) {
	locationWriteRoutes := authenticatedGroup.Group("/locations")
	locationWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		locationWriteRoutes.POST("", locationHandler.CreateLocation)
		locationWriteRoutes.PUT("/:id", locationHandler.UpdateLocation)
		locationWriteRoutes.DELETE("/:id", locationHandler.DeleteLocation)
	}

	authenticatedGroup.GET("/locations", locationHandler.GetLocations)
	authenticatedGroup.GET("/locations/:id", locationHandler.GetLocationByID)
	authenticatedGroup.GET("/locations/:id/proximity", locationHandler.CheckProximity)
}

// SetupShiftRoutes sets up the shift routes.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	{
		shiftRoutes.POST("/clock-in", shiftHandler.ClockIn)
		shiftRoutes.POST("/clock-out", shiftHandler.ClockOut)
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/active", shiftHandler.GetActiveShift)

		manualRoutes := shiftRoutes.Group("")
		manualRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			manualRoutes.POST("/manual-start", shiftHandler.ManualStart)
			manualRoutes.POST("/manual-end", shiftHandler.ManualEnd)
		}
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		reportRoutes.GET("", reportHandler.GenerateReport)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	{
		dashboardRoutes.GET("/summary", reportHandler.GetDashboardSummary)
	}
}
