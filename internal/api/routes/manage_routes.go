package routes

import (
	"headstone-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes registers customer management under /manage/customers.
func RegisterCustomerRoutes(rg *gin.RouterGroup, customerHandler handlers.CustomerHandlerInterface, guard []gin.HandlerFunc) {
	customers := rg.Group("/manage/customers")
	customers.Use(guard...)
	{
		customers.GET("/", customerHandler.GetCustomers)
		customers.POST("/", customerHandler.CreateCustomer)
		customers.PATCH("/:id/", customerHandler.UpdateCustomer)
		customers.DELETE("/:id/", customerHandler.DeleteCustomer)
	}
}

func RegisterEmployeeRoutes(rg *gin.RouterGroup, employeeHandler handlers.EmployeeHandlerInterface, guard []gin.HandlerFunc) {
	employees := rg.Group("/manage/employees")
	employees.Use(guard...)
	{
		employees.GET("/", employeeHandler.GetEmployees)
		employees.POST("/create/", employeeHandler.CreateEmployee)
		employees.PATCH("/:id/", employeeHandler.UpdateEmployeeRole)
	}
}

// RegisterRecordRoutes registers cemetery, plot, memorial and photo routes.
// Listing photos is public like the other list endpoints.
func RegisterRecordRoutes(rg *gin.RouterGroup, recordHandler handlers.RecordHandlerInterface, guard []gin.HandlerFunc) {
	manage := rg.Group("/manage")
	manage.Use(guard...)
	{
		manage.POST("/cemeteries/", recordHandler.CreateCemetery)
		manage.POST("/cemeteries/:id/plots/", recordHandler.CreatePlot)
		manage.DELETE("/plots/:id/", recordHandler.DeletePlot)
		manage.POST("/memorials/", recordHandler.CreateMemorial)
		manage.DELETE("/memorials/:id/", recordHandler.DeleteMemorial)
	}

	rg.GET("/memorials/:id/photos/", recordHandler.ListPhotos)
	photos := rg.Group("/memorials/:id/photos")
	photos.Use(guard...)
	{
		photos.POST("/", recordHandler.AddPhoto)
	}
}

// RegisterInvoiceRoutes registers invoice detail, line items and manual payments.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceHandler handlers.InvoiceHandlerInterface, guard []gin.HandlerFunc) {
	invoices := rg.Group("/manage/invoices")
	invoices.Use(guard...)
	{
		invoices.GET("/:id/", invoiceHandler.GetInvoice)
		invoices.POST("/:id/items/", invoiceHandler.AddInvoiceItem)
		invoices.POST("/:id/payments/", invoiceHandler.RecordPayment)
	}
}
