package services

import (
	"context"
	"errors"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type pricingService struct {
	now    Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewPricingService creates a PricingService. "Today" is taken from now in loc.
func NewPricingService(now Clock, loc *time.Location, logger *zap.Logger) PricingService {
	return &pricingService{now: now, loc: loc, logger: logger.Named("pricing")}
}

// SetServicePrice writes amount onto the service's latest invoice, creating
// a draft invoice when there is none. A nil amount leaves billing untouched.
func (s *pricingService) SetServicePrice(ctx context.Context, tx storage.Store, svc *models.Service, amount *decimal.Decimal) error {
	if amount == nil {
		return nil
	}
	today := dateOf(s.now(), s.loc)

	inv, err := tx.Invoices().LatestForService(ctx, svc.ID)
	switch {
	case err == nil:
		inv.TotalAmount = *amount
		if inv.IssuedDate == nil {
			inv.IssuedDate = &today
		}
		if inv.CustomerID == 0 {
			customerID, err := s.customerOf(ctx, tx, svc)
			if err != nil {
				return err
			}
			inv.CustomerID = customerID
		}
		if _, err := tx.Invoices().Update(ctx, inv); err != nil {
			return MapRepoError(s.logger, err, "updating invoice total")
		}
		s.logger.Debug("Invoice total updated", zap.Int64("invoice_id", inv.ID), zap.Int64("service_id", svc.ID))
		return nil
	case errors.Is(err, storage.ErrNotFound):
	default:
		return MapRepoError(s.logger, err, "finding latest invoice")
	}

	customerID, err := s.customerOf(ctx, tx, svc)
	if err != nil {
		return err
	}
	serviceID := svc.ID
	created, err := tx.Invoices().Create(ctx, &models.Invoice{
		CustomerID:  customerID,
		ServiceID:   &serviceID,
		Status:      models.InvoiceStatusDraft,
		Currency:    "usd",
		IssuedDate:  &today,
		TotalAmount: *amount,
	})
	if err != nil {
		return MapRepoError(s.logger, err, "creating invoice")
	}
	s.logger.Debug("Draft invoice created", zap.Int64("invoice_id", created.ID), zap.Int64("service_id", svc.ID))
	return nil
}

func (s *pricingService) customerOf(ctx context.Context, tx storage.Store, svc *models.Service) (int64, error) {
	memorial, err := tx.Memorials().GetByID(ctx, svc.MemorialID)
	if err != nil {
		return 0, MapRepoError(s.logger, err, "finding memorial for invoice")
	}
	return memorial.CustomerID, nil
}
