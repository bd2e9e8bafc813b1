package services_test

import (
	"testing"

	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) billing() services.BillingService {
	return services.NewBillingService(f.store, f.validate, f.cache, f.clock.Now, f.logger)
}

// pricedInvoice creates a service priced at amount and returns its invoice.
func pricedInvoice(t *testing.T, f *fixture, amount string) *models.Invoice {
	t.Helper()
	_, memorial := f.draftService(t)
	row, err := f.scheduling(1).CreateService(f.ctx, &dto.CreateServiceRequest{MemorialID: memorial.ID, InitialPrice: dec(amount)})
	require.NoError(t, err)
	inv, err := f.store.Invoices().LatestForService(f.ctx, row.ID)
	require.NoError(t, err)
	return inv
}

func TestBillingService_AddInvoiceItem_Retotals(t *testing.T) {
	f := newFixture(t)
	inv := pricedInvoice(t, f, "500")
	billing := f.billing()

	detail, err := billing.AddInvoiceItem(f.ctx, &dto.AddInvoiceItemRequest{
		InvoiceID:   inv.ID,
		Description: "Cleaning",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.RequireFromString("45.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "91", detail.Invoice.TotalAmount.String(), "lines replace the quoted price")

	detail, err = billing.AddInvoiceItem(f.ctx, &dto.AddInvoiceItemRequest{
		InvoiceID:   inv.ID,
		Description: "Sealant",
		Quantity:    decimal.RequireFromString("1.5"),
		UnitPrice:   decimal.RequireFromString("10.25"),
	})
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "106.38", detail.Invoice.TotalAmount.String())
}

func TestBillingService_AddInvoiceItem_Errors(t *testing.T) {
	f := newFixture(t)
	billing := f.billing()

	_, err := billing.AddInvoiceItem(f.ctx, &dto.AddInvoiceItemRequest{
		InvoiceID:   999,
		Description: "Cleaning",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = billing.AddInvoiceItem(f.ctx, &dto.AddInvoiceItemRequest{
		InvoiceID: 1,
		Quantity:  decimal.Zero,
		UnitPrice: decimal.RequireFromString("-3"),
	})
	requireFields(t, err, "description", "quantity", "unit_price")
}

func TestBillingService_RecordPayment(t *testing.T) {
	f := newFixture(t)
	inv := pricedInvoice(t, f, "100")
	billing := f.billing()

	detail, err := billing.RecordPayment(f.ctx, &dto.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(60),
		Method:    models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusDraft, detail.Invoice.Status)
	assert.Equal(t, "60", detail.AmountPaid.String())
	require.Len(t, detail.Payments, 1)
	assert.Equal(t, models.PaymentProviderManual, detail.Payments[0].Provider)
	assert.Equal(t, models.PaymentStatusSucceeded, detail.Payments[0].Status)

	detail, err = billing.RecordPayment(f.ctx, &dto.RecordPaymentRequest{
		InvoiceID:         inv.ID,
		Amount:            decimal.NewFromInt(40),
		Method:            models.PaymentMethodCheck,
		ProviderReference: "chk-1042",
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, detail.Invoice.Status)
	assert.NotNil(t, detail.Invoice.PaidAt)
	assert.Equal(t, "100", detail.AmountPaid.String())

	_, err = billing.AddInvoiceItem(f.ctx, &dto.AddInvoiceItemRequest{
		InvoiceID:   inv.ID,
		Description: "Late extra",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, services.ErrConflict, "paid invoices are closed")

	fetched, err := billing.GetInvoice(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Payments, 2)
}

func TestBillingService_RecordPayment_Rejected(t *testing.T) {
	f := newFixture(t)
	inv := pricedInvoice(t, f, "100")
	billing := f.billing()

	_, err := billing.RecordPayment(f.ctx, &dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: decimal.Zero})
	requireFields(t, err, "amount", "method")

	inv.Status = models.InvoiceStatusVoid
	_, err = f.store.Invoices().Update(f.ctx, inv)
	require.NoError(t, err)
	_, err = billing.RecordPayment(f.ctx, &dto.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(10),
		Method:    models.PaymentMethodCard,
	})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = billing.GetInvoice(f.ctx, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
