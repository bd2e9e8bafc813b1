package dto

import (
	"time"

	"headstone-api/internal/models"

	"github.com/shopspring/decimal"
)

// AddInvoiceItemRequest appends a line to an invoice and re-totals it.
type AddInvoiceItemRequest struct {
	InvoiceID   int64           `json:"-" validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,max=255"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r *AddInvoiceItemRequest) Validate() map[string]string {
	errs := map[string]string{}
	if msg := checkDecimal(r.Quantity, maxMoneyDigits, 2, true); msg != "" {
		errs["quantity"] = msg
	} else if !r.Quantity.IsPositive() {
		errs["quantity"] = "Ensure this value is greater than 0."
	}
	if msg := checkDecimal(r.UnitPrice, maxMoneyDigits, 2, true); msg != "" {
		errs["unit_price"] = msg
	}
	return errs
}

// RecordPaymentRequest records a manual (cash, check, ...) settlement.
type RecordPaymentRequest struct {
	InvoiceID         int64                `json:"-" validate:"required,gt=0"`
	Amount            decimal.Decimal      `json:"amount"`
	Method            models.PaymentMethod `json:"method" validate:"required,oneof=card cash check ach other"`
	ProviderReference string               `json:"provider_reference" validate:"max=255"`
	Notes             string               `json:"notes"`
}

func (r *RecordPaymentRequest) Validate() map[string]string {
	errs := map[string]string{}
	if msg := checkDecimal(r.Amount, maxMoneyDigits, 2, true); msg != "" {
		errs["amount"] = msg
	} else if !r.Amount.IsPositive() {
		errs["amount"] = "Ensure this value is greater than 0."
	}
	return errs
}

type InvoiceItemResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

type PaymentResponse struct {
	ID                int64                  `json:"id"`
	Provider          models.PaymentProvider `json:"provider"`
	Status            models.PaymentStatus   `json:"status"`
	Method            models.PaymentMethod   `json:"method"`
	Currency          string                 `json:"currency"`
	Amount            string                 `json:"amount"`
	ProviderReference string                 `json:"provider_reference"`
	SucceededAt       *time.Time             `json:"succeeded_at"`
	CreatedAt         time.Time              `json:"created_at"`
}

// InvoiceResponse is the detailed view of an invoice.
type InvoiceResponse struct {
	ID          int64                 `json:"id"`
	CustomerID  int64                 `json:"customer_id"`
	ServiceID   *int64                `json:"service_id"`
	Status      models.InvoiceStatus  `json:"status"`
	IssuedDate  *string               `json:"issued_date"`
	DueDate     *string               `json:"due_date"`
	Currency    string                `json:"currency"`
	TotalAmount string                `json:"total_amount"`
	AmountPaid  string                `json:"amount_paid"`
	PaidAt      *time.Time            `json:"paid_at"`
	Notes       string                `json:"notes"`
	Items       []InvoiceItemResponse `json:"items"`
	Payments    []PaymentResponse     `json:"payments"`
}
