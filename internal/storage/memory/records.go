package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/shopspring/decimal"
)

type customerRepo struct{ s *Store }

func (r *customerRepo) List(_ context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error) {
	defer r.s.lock()()
	search := ""
	if req != nil {
		search = strings.ToLower(strings.TrimSpace(req.Search))
	}
	out := []models.Customer{}
	for _, c := range r.s.data().customers {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.FullName), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Customer) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *customerRepo) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	defer r.s.lock()()
	c, ok := r.s.data().customers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Customer, error) {
	defer r.s.lock()()
	out := []models.Customer{}
	seen := map[int64]bool{}
	for _, id := range ids {
		if c, ok := r.s.data().customers[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *customerRepo) Create(_ context.Context, c *models.Customer) (*models.Customer, error) {
	defer r.s.lock()()
	st := r.s.data()
	created := *c
	created.ID = st.nextID("customers")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.customers[created.ID] = created
	return &created, nil
}

func (r *customerRepo) Update(_ context.Context, c *models.Customer) (*models.Customer, error) {
	defer r.s.lock()()
	st := r.s.data()
	existing, ok := st.customers[c.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	updated := *c
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	st.customers[c.ID] = updated
	return &updated, nil
}

func (r *customerRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.customers[id]; !ok {
		return storage.ErrNotFound
	}
	for _, m := range st.memorials {
		if m.CustomerID == id {
			return storage.ErrConflict
		}
	}
	for _, inv := range st.invoices {
		if inv.CustomerID == id {
			return storage.ErrConflict
		}
	}
	delete(st.customers, id)
	return nil
}

type cemeteryRepo struct{ s *Store }

func (r *cemeteryRepo) GetByID(_ context.Context, id int64) (*models.Cemetery, error) {
	defer r.s.lock()()
	c, ok := r.s.data().cemeteries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r *cemeteryRepo) Create(_ context.Context, c *models.Cemetery) (*models.Cemetery, error) {
	defer r.s.lock()()
	st := r.s.data()
	created := *c
	created.ID = st.nextID("cemeteries")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.cemeteries[created.ID] = created
	return &created, nil
}

type plotRepo struct{ s *Store }

func (r *plotRepo) GetByID(_ context.Context, id int64) (*models.Plot, error) {
	defer r.s.lock()()
	p, ok := r.s.data().plots[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (r *plotRepo) Create(_ context.Context, p *models.Plot) (*models.Plot, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.cemeteries[p.CemeteryID]; !ok {
		return nil, storage.ErrConflict
	}
	if (p.GPSLat == nil) != (p.GPSLng == nil) {
		return nil, storage.ErrConflict
	}
	for _, other := range st.plots {
		if other.CemeteryID == p.CemeteryID && other.Section == p.Section &&
			other.Row == p.Row && other.PlotNumber == p.PlotNumber {
			return nil, storage.ErrConflict
		}
	}
	created := *p
	created.ID = st.nextID("plots")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.plots[created.ID] = created
	return &created, nil
}

func (r *plotRepo) UpdateGPS(_ context.Context, id int64, lat, lng decimal.Decimal) error {
	defer r.s.lock()()
	st := r.s.data()
	p, ok := st.plots[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.GPSLat = &lat
	p.GPSLng = &lng
	p.UpdatedAt = r.s.now()
	st.plots[id] = p
	return nil
}

func (r *plotRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.plots[id]; !ok {
		return storage.ErrNotFound
	}
	for _, m := range st.memorials {
		if m.PlotID == id {
			return storage.ErrConflict
		}
	}
	delete(st.plots, id)
	return nil
}

type memorialRepo struct{ s *Store }

func (r *memorialRepo) GetByID(_ context.Context, id int64) (*models.Memorial, error) {
	defer r.s.lock()()
	m, ok := r.s.data().memorials[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (r *memorialRepo) Create(_ context.Context, m *models.Memorial) (*models.Memorial, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.customers[m.CustomerID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := st.plots[m.PlotID]; !ok {
		return nil, storage.ErrConflict
	}
	created := *m
	created.ID = st.nextID("memorials")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.memorials[created.ID] = created
	return &created, nil
}

// Delete cascades to services (and their dependents) and photos.
func (r *memorialRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.memorials[id]; !ok {
		return storage.ErrNotFound
	}
	for sid, svc := range st.services {
		if svc.MemorialID == id {
			st.deleteService(sid)
		}
	}
	for pid, p := range st.photos {
		if p.MemorialID == id {
			delete(st.photos, pid)
		}
	}
	delete(st.memorials, id)
	return nil
}

// deleteService mirrors the service foreign keys: assignments and history
// cascade, invoices and photos lose their service reference.
func (st *state) deleteService(id int64) {
	for aid, a := range st.assignments {
		if a.ServiceID == id {
			delete(st.assignments, aid)
		}
	}
	for hid, h := range st.history {
		if h.ServiceID == id {
			delete(st.history, hid)
		}
	}
	for iid, inv := range st.invoices {
		if inv.ServiceID != nil && *inv.ServiceID == id {
			inv.ServiceID = nil
			st.invoices[iid] = inv
		}
	}
	for pid, p := range st.photos {
		if p.ServiceID != nil && *p.ServiceID == id {
			p.ServiceID = nil
			st.photos[pid] = p
		}
	}
	delete(st.services, id)
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data().users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data().users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *userRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	defer r.s.lock()()
	for _, u := range r.s.data().users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, other := range st.users {
		if other.Username == u.Username {
			return nil, storage.ErrDuplicateUsername
		}
	}
	created := *u
	created.ID = st.nextID("users")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.users[created.ID] = created
	return &created, nil
}

type employeeRepo struct{ s *Store }

// withUsername fills the joined username column.
func (st *state) withUsername(e models.Employee) models.Employee {
	e.Username = ""
	if e.UserID != nil {
		if u, ok := st.users[*e.UserID]; ok {
			e.Username = u.Username
		}
	}
	return e
}

func sortEmployees(out []models.Employee) {
	slices.SortFunc(out, func(a, b models.Employee) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
}

func (r *employeeRepo) List(_ context.Context, req *dto.ListEmployeesRequest) ([]models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.Employee{}
	for _, e := range st.employees {
		if req != nil && req.Role != "" && string(e.Role) != req.Role {
			continue
		}
		out = append(out, st.withUsername(e))
	}
	sortEmployees(out)
	return out, nil
}

func (r *employeeRepo) ListActiveTechnicians(_ context.Context) ([]models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.Employee{}
	for _, e := range st.employees {
		if e.IsActiveTechnician() {
			out = append(out, st.withUsername(e))
		}
	}
	sortEmployees(out)
	return out, nil
}

func (r *employeeRepo) GetByID(_ context.Context, id int64) (*models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	e, ok := st.employees[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	e = st.withUsername(e)
	return &e, nil
}

func (r *employeeRepo) GetByUserID(_ context.Context, userID int64) (*models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	for _, e := range st.employees {
		if e.UserID != nil && *e.UserID == userID {
			e = st.withUsername(e)
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *employeeRepo) Create(_ context.Context, e *models.Employee) (*models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	if e.UserID != nil {
		if _, ok := st.users[*e.UserID]; !ok {
			return nil, storage.ErrConflict
		}
		for _, other := range st.employees {
			if other.UserID != nil && *other.UserID == *e.UserID {
				return nil, storage.ErrConflict
			}
		}
	}
	created := *e
	created.ID = st.nextID("employees")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.employees[created.ID] = created
	created = st.withUsername(created)
	return &created, nil
}

func (r *employeeRepo) Update(_ context.Context, e *models.Employee) (*models.Employee, error) {
	defer r.s.lock()()
	st := r.s.data()
	existing, ok := st.employees[e.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	updated := existing
	updated.FullName = e.FullName
	updated.Email = e.Email
	updated.Phone = e.Phone
	updated.Role = e.Role
	updated.IsActive = e.IsActive
	updated.UpdatedAt = r.s.now()
	st.employees[e.ID] = updated
	updated = st.withUsername(updated)
	return &updated, nil
}
