package services_test

import (
	"testing"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceInvoices(t *testing.T, f *fixture, serviceID int64) []models.Invoice {
	t.Helper()
	var out []models.Invoice
	for id := int64(1); id <= 50; id++ {
		inv, err := f.store.Invoices().GetByID(f.ctx, id)
		if err != nil {
			continue
		}
		if inv.ServiceID != nil && *inv.ServiceID == serviceID {
			out = append(out, *inv)
		}
	}
	return out
}

func TestPricingService_CreatesDraftInvoice(t *testing.T) {
	f := newFixture(t)
	svc, memorial := f.draftService(t)

	err := f.store.WithTx(f.ctx, func(tx storage.Store) error {
		return f.pricing().SetServicePrice(f.ctx, tx, svc, dec("250.00"))
	})
	require.NoError(t, err)

	invoices := serviceInvoices(t, f, svc.ID)
	require.Len(t, invoices, 1)
	inv := invoices[0]
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "usd", inv.Currency)
	assert.Equal(t, "250", inv.TotalAmount.String())
	require.NotNil(t, inv.IssuedDate)
	assert.Equal(t, "2026-03-10", inv.IssuedDate.Format(time.DateOnly))

	m, err := f.store.Memorials().GetByID(f.ctx, memorial.ID)
	require.NoError(t, err)
	assert.Equal(t, m.CustomerID, inv.CustomerID)
}

func TestPricingService_UpdatesExistingInvoice(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.draftService(t)
	pricing := f.pricing()

	require.NoError(t, pricing.SetServicePrice(f.ctx, f.store, svc, dec("100.00")))
	require.NoError(t, pricing.SetServicePrice(f.ctx, f.store, svc, dec("175.50")))

	invoices := serviceInvoices(t, f, svc.ID)
	require.Len(t, invoices, 1, "second call must update, not create")
	assert.Equal(t, "175.5", invoices[0].TotalAmount.String())
}

func TestPricingService_NilAmountIsNoop(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.draftService(t)

	require.NoError(t, f.pricing().SetServicePrice(f.ctx, f.store, svc, nil))
	assert.Empty(t, serviceInvoices(t, f, svc.ID))
}

func TestPricingService_FillsMissingIssueDate(t *testing.T) {
	f := newFixture(t)
	svc, memorial := f.draftService(t)
	serviceID := svc.ID
	existing, err := f.store.Invoices().Create(f.ctx, &models.Invoice{
		CustomerID: memorial.CustomerID,
		ServiceID:  &serviceID,
		Status:     models.InvoiceStatusSent,
		Currency:   "usd",
	})
	require.NoError(t, err)

	require.NoError(t, f.pricing().SetServicePrice(f.ctx, f.store, svc, dec("80")))

	inv, err := f.store.Invoices().GetByID(f.ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, inv.Status, "status is left alone")
	assert.Equal(t, "80", inv.TotalAmount.String())
	require.NotNil(t, inv.IssuedDate)
	assert.Equal(t, "2026-03-10", inv.IssuedDate.Format(time.DateOnly))
}

func TestPricingService_PrefersDatedInvoice(t *testing.T) {
	f := newFixture(t)
	svc, memorial := f.draftService(t)
	serviceID := svc.ID
	issued := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	dated, err := f.store.Invoices().Create(f.ctx, &models.Invoice{
		CustomerID: memorial.CustomerID, ServiceID: &serviceID, Status: models.InvoiceStatusDraft,
		Currency: "usd", IssuedDate: &issued,
	})
	require.NoError(t, err)
	undated, err := f.store.Invoices().Create(f.ctx, &models.Invoice{
		CustomerID: memorial.CustomerID, ServiceID: &serviceID, Status: models.InvoiceStatusDraft,
		Currency: "usd",
	})
	require.NoError(t, err)

	require.NoError(t, f.pricing().SetServicePrice(f.ctx, f.store, svc, dec("42")))

	got, err := f.store.Invoices().GetByID(f.ctx, dated.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", got.TotalAmount.String())
	untouched, err := f.store.Invoices().GetByID(f.ctx, undated.ID)
	require.NoError(t, err)
	assert.True(t, untouched.TotalAmount.IsZero())
}
