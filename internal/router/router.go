package router

import (
	"database/sql"

	"shifttrack_backend/internal/handlers"
	"shifttrack_backend/internal/middleware"
	"shifttrack_backend/internal/repositories"
	"shifttrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)

	// Initialize Services
	authService := services.NewAuthService(employeeRepo, shiftRepo)
	employeeService := services.NewEmployeeService(employeeRepo, shiftRepo, db)
	locationService := services.NewLocationService(locationRepo, db)
	shiftService := services.NewShiftService(shiftRepo, employeeRepo, locationService, db)
	reportService := services.NewReportService(shiftRepo, employeeRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	locationHandler := handlers.NewLocationHandler(locationService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupEmployeeRoutes(authenticated, employeeHandler)
		SetupLocationRoutes(authenticated, locationHandler)
		SetupShiftRoutes(authenticated, shiftHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupDashboardRoutes(authenticated, reportHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes registers the token-protected auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentEmployee)
}
