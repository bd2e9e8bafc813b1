package storage

import (
	"context"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/transport/dto"

	"github.com/shopspring/decimal"
)

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Customers() CustomerRepository
	Cemeteries() CemeteryRepository
	Plots() PlotRepository
	Memorials() MemorialRepository
	Users() UserRepository
	Employees() EmployeeRepository
	Services() ServiceRepository
	Assignments() AssignmentRepository
	StatusHistory() StatusHistoryRepository
	Photos() PhotoRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Reports() ReportRepository

	// WithTx runs fn against a transaction-bound Store. The transaction is
	// committed when fn returns nil and rolled back otherwise. Nested calls
	// reuse the outer transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// CustomerRepository defines the interface for customer data operations.
type CustomerRepository interface {
	List(ctx context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	// Delete fails with ErrConflict while memorials or invoices reference the customer.
	Delete(ctx context.Context, id int64) error
}

type CemeteryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Cemetery, error)
	Create(ctx context.Context, cemetery *models.Cemetery) (*models.Cemetery, error)
}

type PlotRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Plot, error)
	Create(ctx context.Context, plot *models.Plot) (*models.Plot, error)
	UpdateGPS(ctx context.Context, id int64, lat, lng decimal.Decimal) error
	// Delete fails with ErrConflict while memorials reference the plot.
	Delete(ctx context.Context, id int64) error
}

type MemorialRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Memorial, error)
	Create(ctx context.Context, memorial *models.Memorial) (*models.Memorial, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository stores login identities.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Create returns ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

type EmployeeRepository interface {
	List(ctx context.Context, req *dto.ListEmployeesRequest) ([]models.Employee, error)
	ListActiveTechnicians(ctx context.Context) ([]models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) (*models.Employee, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Service, error)
	// GetByIDForUpdate locks the service row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) (*models.Service, error)
	CountByMemorial(ctx context.Context, memorialID int64) (int, error)
}

type AssignmentRepository interface {
	// ListByService returns assignments oldest first.
	ListByService(ctx context.Context, serviceID int64) ([]models.ServiceAssignment, error)
	Create(ctx context.Context, assignment *models.ServiceAssignment) (*models.ServiceAssignment, error)
	ReplaceEmployee(ctx context.Context, assignmentID, employeeID int64) (*models.ServiceAssignment, error)
	DeleteByService(ctx context.Context, serviceID int64, keepID int64) error
}

type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *models.ServiceStatusHistory) (*models.ServiceStatusHistory, error)
	// ListByService returns entries newest first.
	ListByService(ctx context.Context, serviceID int64) ([]models.ServiceStatusHistory, error)
}

type PhotoRepository interface {
	ListByMemorial(ctx context.Context, memorialID int64) ([]models.Photo, error)
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
}

type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	// LatestForService orders by issued date (nulls last) then creation time, newest first.
	LatestForService(ctx context.Context, serviceID int64) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	ListItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error)
	AddItem(ctx context.Context, item *models.InvoiceItem) (*models.InvoiceItem, error)
}

type PaymentRepository interface {
	ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
}

// ReportRepository serves the read-only projections.
type ReportRepository interface {
	DashboardCounts(ctx context.Context, today time.Time) (*models.DashboardCounts, error)
	UpcomingServices(ctx context.Context, limit int) ([]models.UpcomingServiceRow, error)
	RecentCompletedServices(ctx context.Context, limit int) ([]models.RecentServiceRow, error)
	MemorialSummaries(ctx context.Context) ([]models.MemorialSummaryRow, error)
	CustomerSummaries(ctx context.Context) ([]models.CustomerSummaryRow, error)
	CemeterySummaries(ctx context.Context) ([]models.CemeterySummaryRow, error)
	SchedulingBoard(ctx context.Context) ([]models.SchedulingServiceRow, error)
	SchedulingService(ctx context.Context, serviceID int64) (*models.SchedulingServiceRow, error)
}
