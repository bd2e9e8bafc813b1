package routes

import (
	"headstone-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterSchedulingRoutes registers the scheduling board and the manager
// workflow. Only the /manager group is guarded.
func RegisterSchedulingRoutes(
	rg *gin.RouterGroup,
	schedulingHandler handlers.SchedulingHandlerInterface,
	guard []gin.HandlerFunc,
) {
	scheduling := rg.Group("/scheduling/services")
	{
		scheduling.GET("/", schedulingHandler.ListServices)
		scheduling.POST("/create/", schedulingHandler.CreateService)
	}

	manager := rg.Group("/manager/services")
	manager.Use(guard...)
	{
		manager.POST("/:id/assign/", schedulingHandler.AssignTechnician)
		manager.PATCH("/:id/status/", schedulingHandler.UpdateStatus)
		manager.GET("/:id/history/", schedulingHandler.ListHistory)
	}
}

func RegisterEmailRoutes(rg *gin.RouterGroup, emailHandler handlers.EmailHandlerInterface, guard []gin.HandlerFunc) {
	emails := rg.Group("/emails")
	emails.Use(guard...)
	{
		emails.POST("/send/", emailHandler.SendEmails)
	}
}
