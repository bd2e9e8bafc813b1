package services

import (
	"context"
	"fmt"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceDetail is an invoice with its lines and payments.
type InvoiceDetail struct {
	Invoice    models.Invoice
	Items      []models.InvoiceItem
	Payments   []models.Payment
	AmountPaid decimal.Decimal
}

type billingService struct {
	store    storage.Store
	validate *validator.Validate
	cache    cache.Cache
	now      Clock
	logger   *zap.Logger
}

// NewBillingService creates a new instance of BillingService.
func NewBillingService(store storage.Store, validate *validator.Validate, c cache.Cache, now Clock, logger *zap.Logger) BillingService {
	return &billingService{store: store, validate: validate, cache: c, now: now, logger: logger.Named("billing")}
}

func (s *billingService) GetInvoice(ctx context.Context, id int64) (*InvoiceDetail, error) {
	return s.loadDetail(ctx, s.store, id)
}

// AddInvoiceItem appends a line and re-totals the invoice from its lines.
func (s *billingService) AddInvoiceItem(ctx context.Context, req *dto.AddInvoiceItemRequest) (*InvoiceDetail, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	var detail *InvoiceDetail
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		inv, err := tx.Invoices().GetByID(ctx, req.InvoiceID)
		if err != nil {
			return MapRepoError(s.logger, err, fmt.Sprintf("finding invoice %d", req.InvoiceID))
		}
		if inv.Status == models.InvoiceStatusPaid || inv.Status == models.InvoiceStatusVoid {
			return fmt.Errorf("%w: invoice %d is %s", ErrConflict, inv.ID, inv.Status)
		}
		if _, err := tx.Invoices().AddItem(ctx, &models.InvoiceItem{
			InvoiceID:   inv.ID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
		}); err != nil {
			return MapRepoError(s.logger, err, "adding invoice item")
		}
		items, err := tx.Invoices().ListItems(ctx, inv.ID)
		if err != nil {
			return MapRepoError(s.logger, err, "listing invoice items")
		}
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.LineTotal())
		}
		inv.TotalAmount = total.Round(2)
		if _, err := tx.Invoices().Update(ctx, inv); err != nil {
			return MapRepoError(s.logger, err, "updating invoice total")
		}
		detail, err = s.loadDetail(ctx, tx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, s.logger)
	return detail, nil
}

// RecordPayment stores a manual settlement and marks the invoice paid
// once succeeded payments cover its total.
func (s *billingService) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*InvoiceDetail, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	var detail *InvoiceDetail
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		inv, err := tx.Invoices().GetByID(ctx, req.InvoiceID)
		if err != nil {
			return MapRepoError(s.logger, err, fmt.Sprintf("finding invoice %d", req.InvoiceID))
		}
		if inv.Status == models.InvoiceStatusVoid {
			return fmt.Errorf("%w: invoice %d is void", ErrConflict, inv.ID)
		}
		now := s.now()
		if _, err := tx.Payments().Create(ctx, &models.Payment{
			InvoiceID:         inv.ID,
			Provider:          models.PaymentProviderManual,
			Status:            models.PaymentStatusSucceeded,
			Method:            req.Method,
			Currency:          inv.Currency,
			Amount:            req.Amount,
			ProviderReference: req.ProviderReference,
			Notes:             req.Notes,
			SucceededAt:       &now,
		}); err != nil {
			return MapRepoError(s.logger, err, "recording payment")
		}

		detail, err = s.loadDetail(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusPaid && detail.AmountPaid.GreaterThanOrEqual(inv.TotalAmount) {
			inv.Status = models.InvoiceStatusPaid
			inv.PaidAt = &now
			updated, err := tx.Invoices().Update(ctx, inv)
			if err != nil {
				return MapRepoError(s.logger, err, "marking invoice paid")
			}
			detail.Invoice = *updated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Payment recorded", zap.Int64("invoice_id", req.InvoiceID), zap.String("amount", req.Amount.StringFixed(2)))
	return detail, nil
}

func (s *billingService) loadDetail(ctx context.Context, st storage.Store, id int64) (*InvoiceDetail, error) {
	inv, err := st.Invoices().GetByID(ctx, id)
	if err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding invoice %d", id))
	}
	items, err := st.Invoices().ListItems(ctx, id)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing invoice items")
	}
	payments, err := st.Payments().ListByInvoice(ctx, id)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing payments")
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentStatusSucceeded {
			paid = paid.Add(p.Amount)
		}
	}
	return &InvoiceDetail{Invoice: *inv, Items: items, Payments: payments, AmountPaid: paid}, nil
}
