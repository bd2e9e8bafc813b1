package handlers

import "github.com/gin-gonic/gin"

// ReportHandlerInterface defines the read-only list endpoints.
type ReportHandlerInterface interface {
	DashboardSummary(c *gin.Context)
	ListMemorials(c *gin.Context)
	ListCustomers(c *gin.Context)
	ListCemeteries(c *gin.Context)
	ListTechnicians(c *gin.Context)
}

// SchedulingHandlerInterface defines the scheduling board and manager workflow routes.
type SchedulingHandlerInterface interface {
	ListServices(c *gin.Context)
	CreateService(c *gin.Context)
	AssignTechnician(c *gin.Context)
	UpdateStatus(c *gin.Context)
	ListHistory(c *gin.Context)
}

type EmailHandlerInterface interface {
	SendEmails(c *gin.Context)
}

type CustomerHandlerInterface interface {
	GetCustomers(c *gin.Context)
	CreateCustomer(c *gin.Context)
	UpdateCustomer(c *gin.Context)
	DeleteCustomer(c *gin.Context)
}

type EmployeeHandlerInterface interface {
	GetEmployees(c *gin.Context)
	CreateEmployee(c *gin.Context)
	UpdateEmployeeRole(c *gin.Context)
}

type AuthHandlerInterface interface {
	Login(c *gin.Context)
}

// RecordHandlerInterface defines the cemetery, plot, memorial and photo routes.
type RecordHandlerInterface interface {
	CreateCemetery(c *gin.Context)
	CreatePlot(c *gin.Context)
	DeletePlot(c *gin.Context)
	CreateMemorial(c *gin.Context)
	DeleteMemorial(c *gin.Context)
	ListPhotos(c *gin.Context)
	AddPhoto(c *gin.Context)
}

type InvoiceHandlerInterface interface {
	GetInvoice(c *gin.Context)
	AddInvoiceItem(c *gin.Context)
	RecordPayment(c *gin.Context)
}

// Ensure handlers implement the interfaces (compile-time check)
var (
	_ ReportHandlerInterface     = (*ReportHandler)(nil)
	_ SchedulingHandlerInterface = (*SchedulingHandler)(nil)
	_ EmailHandlerInterface      = (*EmailHandler)(nil)
	_ CustomerHandlerInterface   = (*CustomerHandler)(nil)
	_ EmployeeHandlerInterface   = (*EmployeeHandler)(nil)
	_ AuthHandlerInterface       = (*AuthHandler)(nil)
	_ RecordHandlerInterface     = (*RecordHandler)(nil)
	_ InvoiceHandlerInterface    = (*InvoiceHandler)(nil)
)
