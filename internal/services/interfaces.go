package services

import (
	"context"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/shopspring/decimal"
)

// Clock supplies the current time.
type Clock func() time.Time

// PricingService reconciles a service's price with its latest invoice.
type PricingService interface {
	// SetServicePrice runs on the caller's (transaction-bound) store.
	SetServicePrice(ctx context.Context, tx storage.Store, svc *models.Service, amount *decimal.Decimal) error
}

// SchedulingService defines the scheduling workflow.
type SchedulingService interface {
	CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*models.SchedulingServiceRow, error)
	AssignTechnician(ctx context.Context, req *dto.AssignTechnicianRequest) (*models.SchedulingServiceRow, error)
	UpdateServiceStatus(ctx context.Context, req *dto.UpdateServiceStatusRequest) (*models.SchedulingServiceRow, error)
	ListServiceHistory(ctx context.Context, serviceID int64) ([]models.ServiceStatusHistory, error)
	ListBoard(ctx context.Context) ([]models.SchedulingServiceRow, error)
}

// ReportService defines the read-only projections.
type ReportService interface {
	DashboardSummary(ctx context.Context) (*DashboardReport, error)
	ListMemorialSummaries(ctx context.Context) ([]models.MemorialSummaryRow, error)
	ListCustomerSummaries(ctx context.Context) ([]models.CustomerSummaryRow, error)
	ListCemeterySummaries(ctx context.Context) ([]models.CemeterySummaryRow, error)
	ListTechnicians(ctx context.Context) ([]models.Employee, error)
}

// NotificationService sends templated email to customers.
type NotificationService interface {
	SendCustomerEmails(ctx context.Context, req *dto.SendEmailsRequest) (*dto.SendEmailsResponse, error)
}

type CustomerService interface {
	ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type EmployeeService interface {
	ListEmployees(ctx context.Context, req *dto.ListEmployeesRequest) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*models.Employee, error)
	UpdateEmployeeRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*models.Employee, error)
}

// AuthService issues and verifies bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	ParseToken(token string) (*Claims, error)
}

// RecordService manages cemeteries, plots, memorials and their photos.
type RecordService interface {
	CreateCemetery(ctx context.Context, req *dto.CreateCemeteryRequest) (*models.Cemetery, error)
	CreatePlot(ctx context.Context, req *dto.CreatePlotRequest) (*models.Plot, error)
	DeletePlot(ctx context.Context, id int64) error
	CreateMemorial(ctx context.Context, req *dto.CreateMemorialRequest) (*models.Memorial, error)
	DeleteMemorial(ctx context.Context, id int64) error
	ListPhotos(ctx context.Context, memorialID int64) ([]models.Photo, error)
	AddPhoto(ctx context.Context, req *dto.CreatePhotoRequest) (*models.Photo, error)
}

// BillingService manages invoice lines and manual payments.
type BillingService interface {
	GetInvoice(ctx context.Context, id int64) (*InvoiceDetail, error)
	AddInvoiceItem(ctx context.Context, req *dto.AddInvoiceItemRequest) (*InvoiceDetail, error)
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*InvoiceDetail, error)
}
