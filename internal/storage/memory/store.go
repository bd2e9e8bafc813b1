// Package memory provides an in-memory transactional storage.Store. It backs
// the service tests and the server's demo mode when no database is configured.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
)

type state struct {
	seq         map[string]int64
	customers   map[int64]models.Customer
	cemeteries  map[int64]models.Cemetery
	plots       map[int64]models.Plot
	memorials   map[int64]models.Memorial
	users       map[int64]models.User
	employees   map[int64]models.Employee
	services    map[int64]models.Service
	assignments map[int64]models.ServiceAssignment
	history     map[int64]models.ServiceStatusHistory
	photos      map[int64]models.Photo
	invoices    map[int64]models.Invoice
	items       map[int64]models.InvoiceItem
	payments    map[int64]models.Payment
}

func newState() *state {
	return &state{
		seq:         map[string]int64{},
		customers:   map[int64]models.Customer{},
		cemeteries:  map[int64]models.Cemetery{},
		plots:       map[int64]models.Plot{},
		memorials:   map[int64]models.Memorial{},
		users:       map[int64]models.User{},
		employees:   map[int64]models.Employee{},
		services:    map[int64]models.Service{},
		assignments: map[int64]models.ServiceAssignment{},
		history:     map[int64]models.ServiceStatusHistory{},
		photos:      map[int64]models.Photo{},
		invoices:    map[int64]models.Invoice{},
		items:       map[int64]models.InvoiceItem{},
		payments:    map[int64]models.Payment{},
	}
}

// clone copies every table. Entities are stored by value and never mutated
// through shared pointers, so a shallow copy is a full snapshot.
func (st *state) clone() *state {
	return &state{
		seq:         maps.Clone(st.seq),
		customers:   maps.Clone(st.customers),
		cemeteries:  maps.Clone(st.cemeteries),
		plots:       maps.Clone(st.plots),
		memorials:   maps.Clone(st.memorials),
		users:       maps.Clone(st.users),
		employees:   maps.Clone(st.employees),
		services:    maps.Clone(st.services),
		assignments: maps.Clone(st.assignments),
		history:     maps.Clone(st.history),
		photos:      maps.Clone(st.photos),
		invoices:    maps.Clone(st.invoices),
		items:       maps.Clone(st.items),
		payments:    maps.Clone(st.payments),
	}
}

func (st *state) nextID(table string) int64 {
	st.seq[table]++
	return st.seq[table]
}

// Store implements storage.Store in memory. A single mutex serializes all
// access; a transaction holds it until commit or rollback.
type Store struct {
	mu   *sync.Mutex
	st   **state
	now  func() time.Time
	inTx bool
}

var _ storage.Store = (*Store)(nil)

// NewStore returns an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	st := newState()
	return &Store{mu: &sync.Mutex{}, st: &st, now: now}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) data() *state {
	return *s.st
}

// WithTx snapshots the state, runs fn and restores the snapshot when fn fails.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data().clone()
	if err := fn(&Store{mu: s.mu, st: s.st, now: s.now, inTx: true}); err != nil {
		*s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Customers() storage.CustomerRepository { return &customerRepo{s} }
func (s *Store) Cemeteries() storage.CemeteryRepository { return &cemeteryRepo{s} }
func (s *Store) Plots() storage.PlotRepository { return &plotRepo{s} }
func (s *Store) Memorials() storage.MemorialRepository { return &memorialRepo{s} }
func (s *Store) Users() storage.UserRepository { return &userRepo{s} }
func (s *Store) Employees() storage.EmployeeRepository { return &employeeRepo{s} }
func (s *Store) Services() storage.ServiceRepository { return &serviceRepo{s} }
func (s *Store) Assignments() storage.AssignmentRepository { return &assignmentRepo{s} }
func (s *Store) StatusHistory() storage.StatusHistoryRepository { return &historyRepo{s} }
func (s *Store) Photos() storage.PhotoRepository { return &photoRepo{s} }
func (s *Store) Invoices() storage.InvoiceRepository { return &invoiceRepo{s} }
func (s *Store) Payments() storage.PaymentRepository { return &paymentRepo{s} }
func (s *Store) Reports() storage.ReportRepository { return &reportRepo{s} }
