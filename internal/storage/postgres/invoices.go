package postgres

import (
	"context"
	"fmt"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"go.uber.org/zap"
)

// InvoiceRepo implements storage.InvoiceRepository.
type InvoiceRepo struct {
	db     Querier
	logger *zap.Logger
}

var _ storage.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, customer_id, service_id, status, issued_date, due_date, currency, total_amount, paid_at, notes,
	provider_customer_id, provider_checkout_session_id, provider_payment_intent_id, created_at, updated_at`

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var i models.Invoice
	err := row.Scan(&i.ID, &i.CustomerID, &i.ServiceID, &i.Status, &i.IssuedDate, &i.DueDate, &i.Currency,
		&i.TotalAmount, &i.PaidAt, &i.Notes, &i.ProviderCustomerID, &i.ProviderCheckoutSessionID,
		&i.ProviderPaymentIntentID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get invoice %d", id))
	}
	return inv, nil
}

func (r *InvoiceRepo) LatestForService(ctx context.Context, serviceID int64) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE service_id = $1
		ORDER BY issued_date DESC NULLS LAST, created_at DESC, id DESC
		LIMIT 1`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, serviceID))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get latest invoice of service %d", serviceID))
	}
	return inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	query := `
		INSERT INTO invoices (customer_id, service_id, status, issued_date, due_date, currency, total_amount, paid_at, notes,
			provider_customer_id, provider_checkout_session_id, provider_payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING ` + invoiceColumns
	created, err := scanInvoice(r.db.QueryRow(ctx, query,
		inv.CustomerID, inv.ServiceID, inv.Status, inv.IssuedDate, inv.DueDate, inv.Currency, inv.TotalAmount,
		inv.PaidAt, inv.Notes, inv.ProviderCustomerID, inv.ProviderCheckoutSessionID, inv.ProviderPaymentIntentID))
	if err != nil {
		return nil, mapWriteError(err, "failed to create invoice")
	}
	r.logger.Info("invoice created",
		zap.Int64("invoice_id", created.ID),
		zap.String("total_amount", created.TotalAmount.StringFixed(2)))
	return created, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	query := `
		UPDATE invoices
		SET customer_id = $2, service_id = $3, status = $4, issued_date = $5, due_date = $6, currency = $7,
		    total_amount = $8, paid_at = $9, notes = $10, provider_customer_id = $11,
		    provider_checkout_session_id = $12, provider_payment_intent_id = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + invoiceColumns
	updated, err := scanInvoice(r.db.QueryRow(ctx, query,
		inv.ID, inv.CustomerID, inv.ServiceID, inv.Status, inv.IssuedDate, inv.DueDate, inv.Currency,
		inv.TotalAmount, inv.PaidAt, inv.Notes, inv.ProviderCustomerID, inv.ProviderCheckoutSessionID,
		inv.ProviderPaymentIntentID))
	if err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("failed to update invoice %d", inv.ID))
	}
	return updated, nil
}

func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, description, quantity, unit_price FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of invoice %d: %w", invoiceID, err)
	}
	items, err := collect(rows, func(row rowScanner) (*models.InvoiceItem, error) {
		var it models.InvoiceItem
		if err := row.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		return &it, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice items: %w", err)
	}
	return items, nil
}

func (r *InvoiceRepo) AddItem(ctx context.Context, item *models.InvoiceItem) (*models.InvoiceItem, error) {
	created := *item
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
	).Scan(&created.ID)
	if err != nil {
		return nil, mapWriteError(err, "failed to add invoice item")
	}
	return &created, nil
}

// PaymentRepo implements storage.PaymentRepository.
type PaymentRepo struct {
	db Querier
}

var _ storage.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, invoice_id, provider, status, method, currency, amount, provider_checkout_session_id,
	provider_payment_intent_id, provider_charge_id, receipt_url, provider_reference, notes, succeeded_at, created_at, updated_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Provider, &p.Status, &p.Method, &p.Currency, &p.Amount,
		&p.ProviderCheckoutSessionID, &p.ProviderPaymentIntentID, &p.ProviderChargeID, &p.ReceiptURL,
		&p.ProviderReference, &p.Notes, &p.SucceededAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of invoice %d: %w", invoiceID, err)
	}
	out, err := collect(rows, scanPayment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments: %w", err)
	}
	return out, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	query := `
		INSERT INTO payments (invoice_id, provider, status, method, currency, amount, provider_checkout_session_id,
			provider_payment_intent_id, provider_charge_id, receipt_url, provider_reference, notes, succeeded_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + paymentColumns
	created, err := scanPayment(r.db.QueryRow(ctx, query,
		p.InvoiceID, string(p.Provider), string(p.Status), string(p.Method), p.Currency, p.Amount,
		p.ProviderCheckoutSessionID, p.ProviderPaymentIntentID, p.ProviderChargeID, p.ReceiptURL,
		p.ProviderReference, p.Notes, p.SucceededAt))
	if err != nil {
		return nil, mapWriteError(err, "failed to create payment")
	}
	return created, nil
}

// PhotoRepo implements storage.PhotoRepository.
type PhotoRepo struct {
	db Querier
}

var _ storage.PhotoRepository = (*PhotoRepo)(nil)

const photoColumns = `id, memorial_id, service_id, photo_type, image_url, caption, created_at, updated_at`

func scanPhoto(row rowScanner) (*models.Photo, error) {
	var p models.Photo
	if err := row.Scan(&p.ID, &p.MemorialID, &p.ServiceID, &p.PhotoType, &p.ImageURL, &p.Caption, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhotoRepo) ListByMemorial(ctx context.Context, memorialID int64) ([]models.Photo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE memorial_id = $1 ORDER BY created_at DESC, id DESC`, memorialID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos of memorial %d: %w", memorialID, err)
	}
	out, err := collect(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("failed to scan photos: %w", err)
	}
	return out, nil
}

func (r *PhotoRepo) Create(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	query := `
		INSERT INTO photos (memorial_id, service_id, photo_type, image_url, caption, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + photoColumns
	created, err := scanPhoto(r.db.QueryRow(ctx, query, p.MemorialID, p.ServiceID, string(p.PhotoType), p.ImageURL, p.Caption))
	if err != nil {
		return nil, mapWriteError(err, "failed to create photo")
	}
	return created, nil
}
