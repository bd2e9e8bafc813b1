package postgres

import (
	"context"
	"fmt"
	"strings"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

// CustomerRepo implements storage.CustomerRepository using PostgreSQL.
type CustomerRepo struct {
	db     Querier
	logger *zap.Logger
}

var _ storage.CustomerRepository = (*CustomerRepo)(nil)

var customerColumns = []string{
	"id", "full_name", "email", "phone", "address_line1", "address_line2",
	"city", "state", "postal_code", "notes", "created_at", "updated_at",
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.AddressLine1, &c.AddressLine2,
		&c.City, &c.State, &c.PostalCode, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns customers ordered by name, optionally filtered by a
// case-insensitive match on name or email.
func (r *CustomerRepo) List(ctx context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error) {
	t := entsql.Dialect(dialect.Postgres).Table("customers")
	sel := entsql.Dialect(dialect.Postgres).
		Select(t.Columns(customerColumns...)...).
		From(t).
		OrderBy(t.C("full_name"), t.C("id"))

	if req != nil {
		if search := strings.TrimSpace(req.Search); search != "" {
			sel.Where(entsql.Or(
				entsql.ContainsFold(t.C("full_name"), search),
				entsql.ContainsFold(t.C("email"), search),
			))
		}
	}

	query, args := sel.Query()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query customers", zap.Error(err))
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	customers, err := collect(rows, scanCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to scan customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + strings.Join(customerColumns, ", ") + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get customer %d", id))
	}
	return c, nil
}

// GetByIDs returns the customers that exist among ids, in no particular order.
func (r *CustomerRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Customer, error) {
	if len(ids) == 0 {
		return []models.Customer{}, nil
	}
	query := `SELECT ` + strings.Join(customerColumns, ", ") + ` FROM customers WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers by ids: %w", err)
	}
	customers, err := collect(rows, scanCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to scan customers by ids: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	query := `
		INSERT INTO customers (full_name, email, phone, address_line1, address_line2, city, state, postal_code, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + strings.Join(customerColumns, ", ")

	created, err := scanCustomer(r.db.QueryRow(ctx, query,
		c.FullName, c.Email, c.Phone, c.AddressLine1, c.AddressLine2,
		c.City, c.State, c.PostalCode, c.Notes,
	))
	if err != nil {
		return nil, mapWriteError(err, "failed to create customer")
	}
	r.logger.Debug("customer created", zap.Int64("customer_id", created.ID))
	return created, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET full_name = $2, email = $3, phone = $4, address_line1 = $5, address_line2 = $6,
		    city = $7, state = $8, postal_code = $9, notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + strings.Join(customerColumns, ", ")

	updated, err := scanCustomer(r.db.QueryRow(ctx, query,
		c.ID, c.FullName, c.Email, c.Phone, c.AddressLine1, c.AddressLine2,
		c.City, c.State, c.PostalCode, c.Notes,
	))
	if err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("failed to update customer %d", c.ID))
	}
	return updated, nil
}

// Delete relies on the RESTRICT foreign keys of memorials and invoices.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to delete customer %d", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	r.logger.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}
