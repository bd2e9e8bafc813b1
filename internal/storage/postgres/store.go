package postgres

import (
	"context"
	"errors"
	"fmt"

	"headstone-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// Store implements storage.Store on a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	db     Querier
	inTx   bool
	logger *zap.Logger
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store backed by pool.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, db: pool, logger: logger.Named("postgres")}
}

func (s *Store) Customers() storage.CustomerRepository {
	return &CustomerRepo{db: s.db, logger: s.logger}
}
func (s *Store) Cemeteries() storage.CemeteryRepository {
	return &CemeteryRepo{db: s.db}
}
func (s *Store) Plots() storage.PlotRepository {
	return &PlotRepo{db: s.db}
}
func (s *Store) Memorials() storage.MemorialRepository {
	return &MemorialRepo{db: s.db}
}
func (s *Store) Users() storage.UserRepository {
	return &UserRepo{db: s.db, logger: s.logger}
}
func (s *Store) Employees() storage.EmployeeRepository {
	return &EmployeeRepo{db: s.db, logger: s.logger}
}
func (s *Store) Services() storage.ServiceRepository {
	return &ServiceRepo{db: s.db}
}
func (s *Store) Assignments() storage.AssignmentRepository {
	return &AssignmentRepo{db: s.db}
}
func (s *Store) StatusHistory() storage.StatusHistoryRepository {
	return &StatusHistoryRepo{db: s.db}
}
func (s *Store) Photos() storage.PhotoRepository {
	return &PhotoRepo{db: s.db}
}
func (s *Store) Invoices() storage.InvoiceRepository {
	return &InvoiceRepo{db: s.db, logger: s.logger}
}
func (s *Store) Payments() storage.PaymentRepository {
	return &PaymentRepo{db: s.db}
}
func (s *Store) Reports() storage.ReportRepository {
	return &ReportRepo{db: s.db}
}

// WithTx begins a transaction, hands fn a Store bound to it and commits when
// fn succeeds. Inside an existing transaction fn runs on the same one.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Error("transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(&Store{pool: s.pool, db: tx, inTx: true, logger: s.logger}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError(err, "failed to commit transaction")
	}
	return nil
}
