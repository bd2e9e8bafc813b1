package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer owns memorials and invoices.
type Customer struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	AddressLine1 string    `json:"address_line1" db:"address_line1"`
	AddressLine2 string    `json:"address_line2" db:"address_line2"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Cemetery struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	ContactPhone string    `json:"contact_phone" db:"contact_phone"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Plot is a physical location within a cemetery. GPS coordinates are either
// both set or both nil.
type Plot struct {
	ID          int64            `json:"id" db:"id"`
	CemeteryID  int64            `json:"cemetery_id" db:"cemetery_id"`
	Section     string           `json:"section" db:"section"`
	Row         string           `json:"row" db:"row"`
	PlotNumber  string           `json:"plot_number" db:"plot_number"`
	GPSLat      *decimal.Decimal `json:"gps_lat" db:"gps_lat"`
	GPSLng      *decimal.Decimal `json:"gps_lng" db:"gps_lng"`
	AccessNotes string           `json:"access_notes" db:"access_notes"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// HasGPS reports whether the plot carries a coordinate pair.
func (p *Plot) HasGPS() bool {
	return p.GPSLat != nil && p.GPSLng != nil
}

type Memorial struct {
	ID               int64      `json:"id" db:"id"`
	CustomerID       int64      `json:"customer_id" db:"customer_id"`
	PlotID           int64      `json:"plot_id" db:"plot_id"`
	Material         Material   `json:"material" db:"material"`
	InscriptionText  string     `json:"inscription_text" db:"inscription_text"`
	ConditionSummary string     `json:"condition_summary" db:"condition_summary"`
	InstallDate      *time.Time `json:"install_date" db:"install_date"`
	Notes            string     `json:"notes" db:"notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// User is the login identity behind an Employee.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Employee struct {
	ID        int64        `json:"id" db:"id"`
	UserID    *int64       `json:"user_id" db:"user_id"`
	Username  string       `json:"username" db:"username"` // joined from users, empty when unlinked
	FullName  string       `json:"full_name" db:"full_name"`
	Email     string       `json:"email" db:"email"`
	Phone     string       `json:"phone" db:"phone"`
	Role      EmployeeRole `json:"role" db:"role"`
	IsActive  bool         `json:"is_active" db:"is_active"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// IsActiveTechnician reports whether the employee can be assigned field work.
func (e *Employee) IsActiveTechnician() bool {
	return e.Role == RoleTech && e.IsActive
}

// Service is one unit of restoration work on a memorial.
type Service struct {
	ID               int64            `json:"id" db:"id"`
	MemorialID       int64            `json:"memorial_id" db:"memorial_id"`
	ServiceType      ServiceType      `json:"service_type" db:"service_type"`
	Status           ServiceStatus    `json:"status" db:"status"`
	ScheduledDate    *time.Time       `json:"scheduled_date" db:"scheduled_date"`
	ScheduledStart   *time.Time       `json:"scheduled_start" db:"scheduled_start"`
	EstimatedMinutes *int             `json:"estimated_minutes" db:"estimated_minutes"`
	CompletedDate    *time.Time       `json:"completed_date" db:"completed_date"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost" db:"estimated_cost"`
	ActualCost       *decimal.Decimal `json:"actual_cost" db:"actual_cost"`
	InternalNotes    string           `json:"internal_notes" db:"internal_notes"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// ServiceStatusHistory is an append-only record of one status change.
type ServiceStatusHistory struct {
	ID          int64         `json:"id" db:"id"`
	ServiceID   int64         `json:"service_id" db:"service_id"`
	OldStatus   ServiceStatus `json:"old_status" db:"old_status"`
	NewStatus   ServiceStatus `json:"new_status" db:"new_status"`
	ChangedByID *int64        `json:"changed_by" db:"changed_by"`
	ChangedAt   time.Time     `json:"changed_at" db:"changed_at"`
}

type ServiceAssignment struct {
	ID         int64          `json:"id" db:"id"`
	ServiceID  int64          `json:"service_id" db:"service_id"`
	EmployeeID int64          `json:"employee_id" db:"employee_id"`
	Role       AssignmentRole `json:"role" db:"role"`
	Notes      string         `json:"notes" db:"notes"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

type Photo struct {
	ID         int64     `json:"id" db:"id"`
	MemorialID int64     `json:"memorial_id" db:"memorial_id"`
	ServiceID  *int64    `json:"service_id" db:"service_id"`
	PhotoType  PhotoType `json:"photo_type" db:"photo_type"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	Caption    string    `json:"caption" db:"caption"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Invoice is the billing record; the latest invoice of a service carries its price.
type Invoice struct {
	ID                        int64           `json:"id" db:"id"`
	CustomerID                int64           `json:"customer_id" db:"customer_id"`
	ServiceID                 *int64          `json:"service_id" db:"service_id"`
	Status                    InvoiceStatus   `json:"status" db:"status"`
	IssuedDate                *time.Time      `json:"issued_date" db:"issued_date"`
	DueDate                   *time.Time      `json:"due_date" db:"due_date"`
	Currency                  string          `json:"currency" db:"currency"`
	TotalAmount               decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAt                    *time.Time      `json:"paid_at" db:"paid_at"`
	Notes                     string          `json:"notes" db:"notes"`
	ProviderCustomerID        string          `json:"provider_customer_id" db:"provider_customer_id"`
	ProviderCheckoutSessionID string          `json:"provider_checkout_session_id" db:"provider_checkout_session_id"`
	ProviderPaymentIntentID   string          `json:"provider_payment_intent_id" db:"provider_payment_intent_id"`
	CreatedAt                 time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at" db:"updated_at"`
}

type InvoiceItem struct {
	ID          int64           `json:"id" db:"id"`
	InvoiceID   int64           `json:"invoice_id" db:"invoice_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// LineTotal is quantity times unit price; it is never stored.
func (i InvoiceItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

type Payment struct {
	ID                        int64           `json:"id" db:"id"`
	InvoiceID                 int64           `json:"invoice_id" db:"invoice_id"`
	Provider                  PaymentProvider `json:"provider" db:"provider"`
	Status                    PaymentStatus   `json:"status" db:"status"`
	Method                    PaymentMethod   `json:"method" db:"method"`
	Currency                  string          `json:"currency" db:"currency"`
	Amount                    decimal.Decimal `json:"amount" db:"amount"`
	ProviderCheckoutSessionID string          `json:"provider_checkout_session_id" db:"provider_checkout_session_id"`
	ProviderPaymentIntentID   string          `json:"provider_payment_intent_id" db:"provider_payment_intent_id"`
	ProviderChargeID          string          `json:"provider_charge_id" db:"provider_charge_id"`
	ReceiptURL                string          `json:"receipt_url" db:"receipt_url"`
	ProviderReference         string          `json:"provider_reference" db:"provider_reference"`
	Notes                     string          `json:"notes" db:"notes"`
	SucceededAt               *time.Time      `json:"succeeded_at" db:"succeeded_at"`
	CreatedAt                 time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at" db:"updated_at"`
}
