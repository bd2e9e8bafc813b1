package routes

import (
	"headstone-api/internal/api/handlers"
	"headstone-api/internal/api/middleware"
	"headstone-api/internal/app"
	"headstone-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {
	api := router.Group("/api")
	logger := app.Logger

	// Create handlers
	svc := app.Services
	reportHandler := handlers.NewReportHandler(svc.Reports, logger)
	schedulingHandler := handlers.NewSchedulingHandler(svc.Scheduling, logger)
	emailHandler := handlers.NewEmailHandler(svc.Notifications, logger)
	customerHandler := handlers.NewCustomerHandler(svc.Customers, logger)
	employeeHandler := handlers.NewEmployeeHandler(svc.Employees, logger)
	authHandler := handlers.NewAuthHandler(svc.Auth, logger)
	recordHandler := handlers.NewRecordHandler(svc.Records, logger)
	invoiceHandler := handlers.NewInvoiceHandler(svc.Billing, logger)

	// --- Middleware ---
	// Management routes are open unless auth is enabled (demo mode).
	var managerOnly []gin.HandlerFunc
	if app.Config.Auth.Enabled {
		managerOnly = []gin.HandlerFunc{
			middleware.JWTAuthMiddleware(svc.Auth, logger),
			middleware.RequireRole(models.RoleManager, models.RoleAdmin),
		}
	} else {
		logger.Warn("Authentication disabled: management routes are open")
	}

	// --- Register Resource Routes ---
	RegisterAuthRoutes(api, authHandler)
	RegisterReportRoutes(api, reportHandler)
	RegisterSchedulingRoutes(api, schedulingHandler, managerOnly)
	RegisterEmailRoutes(api, emailHandler, managerOnly)
	RegisterCustomerRoutes(api, customerHandler, managerOnly)
	RegisterEmployeeRoutes(api, employeeHandler, managerOnly)
	RegisterRecordRoutes(api, recordHandler, managerOnly)
	RegisterInvoiceRoutes(api, invoiceHandler, managerOnly)

	// --- Health Check and Metrics ---
	router.GET("/health", handlers.NewHealthHandler(app.HealthChecks, logger).Health)
	if app.Metrics != nil {
		router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	logger.Debug("Configuring Swagger UI handler", zap.String("path", "/swagger/index.html"))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
