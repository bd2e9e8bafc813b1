package routes

import (
	"headstone-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterReportRoutes registers the read-only list and dashboard routes.
func RegisterReportRoutes(rg *gin.RouterGroup, reportHandler handlers.ReportHandlerInterface) {
	rg.GET("/dashboard/summary/", reportHandler.DashboardSummary)
	rg.GET("/memorials/", reportHandler.ListMemorials)
	rg.GET("/customers/", reportHandler.ListCustomers)
	rg.GET("/cemeteries/", reportHandler.ListCemeteries)
	rg.GET("/technicians/", reportHandler.ListTechnicians)
}

func RegisterAuthRoutes(rg *gin.RouterGroup, authHandler handlers.AuthHandlerInterface) {
	rg.POST("/auth/login/", authHandler.Login)
}
