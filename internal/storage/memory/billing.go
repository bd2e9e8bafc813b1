package memory

import (
	"cmp"
	"context"
	"slices"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
)

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) GetByID(_ context.Context, id int64) (*models.Invoice, error) {
	defer r.s.lock()()
	inv, ok := r.s.data().invoices[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &inv, nil
}

// compareInvoicesNewestFirst orders by issued date (nulls last), then
// creation time, then id, all descending.
func compareInvoicesNewestFirst(a, b models.Invoice) int {
	switch {
	case a.IssuedDate == nil && b.IssuedDate != nil:
		return 1
	case a.IssuedDate != nil && b.IssuedDate == nil:
		return -1
	case a.IssuedDate != nil && b.IssuedDate != nil:
		if c := b.IssuedDate.Compare(*a.IssuedDate); c != 0 {
			return c
		}
	}
	return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
}

func (st *state) latestInvoice(serviceID int64) (models.Invoice, bool) {
	var candidates []models.Invoice
	for _, inv := range st.invoices {
		if inv.ServiceID != nil && *inv.ServiceID == serviceID {
			candidates = append(candidates, inv)
		}
	}
	if len(candidates) == 0 {
		return models.Invoice{}, false
	}
	slices.SortFunc(candidates, compareInvoicesNewestFirst)
	return candidates[0], true
}

func (r *invoiceRepo) LatestForService(_ context.Context, serviceID int64) (*models.Invoice, error) {
	defer r.s.lock()()
	inv, ok := r.s.data().latestInvoice(serviceID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &inv, nil
}

func checkInvoiceRow(st *state, inv *models.Invoice) error {
	if _, ok := st.customers[inv.CustomerID]; !ok {
		return storage.ErrConflict
	}
	if inv.ServiceID != nil {
		if _, ok := st.services[*inv.ServiceID]; !ok {
			return storage.ErrConflict
		}
	}
	return nil
}

func (r *invoiceRepo) Create(_ context.Context, inv *models.Invoice) (*models.Invoice, error) {
	defer r.s.lock()()
	st := r.s.data()
	if err := checkInvoiceRow(st, inv); err != nil {
		return nil, err
	}
	created := *inv
	created.ID = st.nextID("invoices")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.invoices[created.ID] = created
	return &created, nil
}

func (r *invoiceRepo) Update(_ context.Context, inv *models.Invoice) (*models.Invoice, error) {
	defer r.s.lock()()
	st := r.s.data()
	existing, ok := st.invoices[inv.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if err := checkInvoiceRow(st, inv); err != nil {
		return nil, err
	}
	updated := *inv
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	st.invoices[inv.ID] = updated
	return &updated, nil
}

func (r *invoiceRepo) ListItems(_ context.Context, invoiceID int64) ([]models.InvoiceItem, error) {
	defer r.s.lock()()
	out := []models.InvoiceItem{}
	for _, it := range r.s.data().items {
		if it.InvoiceID == invoiceID {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b models.InvoiceItem) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *invoiceRepo) AddItem(_ context.Context, item *models.InvoiceItem) (*models.InvoiceItem, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.invoices[item.InvoiceID]; !ok {
		return nil, storage.ErrConflict
	}
	created := *item
	created.ID = st.nextID("invoice_items")
	st.items[created.ID] = created
	return &created, nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) ListByInvoice(_ context.Context, invoiceID int64) ([]models.Payment, error) {
	defer r.s.lock()()
	out := []models.Payment{}
	for _, p := range r.s.data().payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Payment) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *paymentRepo) Create(_ context.Context, p *models.Payment) (*models.Payment, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.invoices[p.InvoiceID]; !ok {
		return nil, storage.ErrConflict
	}
	created := *p
	created.ID = st.nextID("payments")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.payments[created.ID] = created
	return &created, nil
}

type photoRepo struct{ s *Store }

func (r *photoRepo) ListByMemorial(_ context.Context, memorialID int64) ([]models.Photo, error) {
	defer r.s.lock()()
	out := []models.Photo{}
	for _, p := range r.s.data().photos {
		if p.MemorialID == memorialID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Photo) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (r *photoRepo) Create(_ context.Context, p *models.Photo) (*models.Photo, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.memorials[p.MemorialID]; !ok {
		return nil, storage.ErrConflict
	}
	if p.ServiceID != nil {
		if _, ok := st.services[*p.ServiceID]; !ok {
			return nil, storage.ErrConflict
		}
	}
	created := *p
	created.ID = st.nextID("photos")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.photos[created.ID] = created
	return &created, nil
}
