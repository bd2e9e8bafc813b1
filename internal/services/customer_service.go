package services

import (
	"context"
	"fmt"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type customerService struct {
	store    storage.Store
	validate *validator.Validate
	cache    cache.Cache
	logger   *zap.Logger
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(store storage.Store, validate *validator.Validate, c cache.Cache, logger *zap.Logger) CustomerService {
	return &customerService{store: store, validate: validate, cache: c, logger: logger.Named("customers")}
}

func (s *customerService) ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	customers, err := s.store.Customers().List(ctx, req)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing customers")
	}
	return customers, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	customer, err := s.store.Customers().Create(ctx, &models.Customer{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, MapRepoError(s.logger, err, "creating customer")
	}
	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	customer, err := s.store.Customers().GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding customer %d", req.ID))
	}
	applyString(&customer.FullName, req.FullName)
	applyString(&customer.Email, req.Email)
	applyString(&customer.Phone, req.Phone)
	applyString(&customer.AddressLine1, req.AddressLine1)
	applyString(&customer.AddressLine2, req.AddressLine2)
	applyString(&customer.City, req.City)
	applyString(&customer.State, req.State)
	applyString(&customer.PostalCode, req.PostalCode)
	applyString(&customer.Notes, req.Notes)

	updated, err := s.store.Customers().Update(ctx, customer)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "updating customer")
	}
	// Customer names appear on the dashboard lists.
	invalidateDashboard(ctx, s.cache, s.logger)
	return updated, nil
}

// DeleteCustomer fails with ErrConflict while the customer still owns
// memorials or invoices.
func (s *customerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.store.Customers().Delete(ctx, id); err != nil {
		return MapRepoError(s.logger, err, fmt.Sprintf("deleting customer %d", id))
	}
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
