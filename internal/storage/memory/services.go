package memory

import (
	"cmp"
	"context"
	"slices"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
)

type serviceRepo struct{ s *Store }

func (r *serviceRepo) GetByID(_ context.Context, id int64) (*models.Service, error) {
	defer r.s.lock()()
	svc, ok := r.s.data().services[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &svc, nil
}

// GetByIDForUpdate needs no row lock: a transaction already holds the store mutex.
func (r *serviceRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Service, error) {
	return r.GetByID(ctx, id)
}

func checkServiceRow(st *state, svc *models.Service) error {
	if _, ok := st.memorials[svc.MemorialID]; !ok {
		return storage.ErrConflict
	}
	if svc.EstimatedMinutes != nil && (*svc.EstimatedMinutes < 1 || *svc.EstimatedMinutes > 1440) {
		return storage.ErrConflict
	}
	if !svc.Status.Valid() || !svc.ServiceType.Valid() {
		return storage.ErrConflict
	}
	return nil
}

func (r *serviceRepo) Create(_ context.Context, svc *models.Service) (*models.Service, error) {
	defer r.s.lock()()
	st := r.s.data()
	if err := checkServiceRow(st, svc); err != nil {
		return nil, err
	}
	created := *svc
	created.ID = st.nextID("services")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.services[created.ID] = created
	return &created, nil
}

func (r *serviceRepo) Update(_ context.Context, svc *models.Service) (*models.Service, error) {
	defer r.s.lock()()
	st := r.s.data()
	existing, ok := st.services[svc.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if err := checkServiceRow(st, svc); err != nil {
		return nil, err
	}
	updated := *svc
	updated.MemorialID = existing.MemorialID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	st.services[svc.ID] = updated
	return &updated, nil
}

func (r *serviceRepo) CountByMemorial(_ context.Context, memorialID int64) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, svc := range r.s.data().services {
		if svc.MemorialID == memorialID {
			n++
		}
	}
	return n, nil
}

type assignmentRepo struct{ s *Store }

func (st *state) assignmentsOf(serviceID int64) []models.ServiceAssignment {
	out := []models.ServiceAssignment{}
	for _, a := range st.assignments {
		if a.ServiceID == serviceID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b models.ServiceAssignment) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (r *assignmentRepo) ListByService(_ context.Context, serviceID int64) ([]models.ServiceAssignment, error) {
	defer r.s.lock()()
	return r.s.data().assignmentsOf(serviceID), nil
}

func (r *assignmentRepo) Create(_ context.Context, a *models.ServiceAssignment) (*models.ServiceAssignment, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.services[a.ServiceID]; !ok {
		return nil, storage.ErrConflict
	}
	if _, ok := st.employees[a.EmployeeID]; !ok {
		return nil, storage.ErrConflict
	}
	for _, other := range st.assignments {
		if other.ServiceID == a.ServiceID && other.EmployeeID == a.EmployeeID {
			return nil, storage.ErrConflict
		}
	}
	created := *a
	created.ID = st.nextID("service_assignments")
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt
	st.assignments[created.ID] = created
	return &created, nil
}

func (r *assignmentRepo) ReplaceEmployee(_ context.Context, assignmentID, employeeID int64) (*models.ServiceAssignment, error) {
	defer r.s.lock()()
	st := r.s.data()
	a, ok := st.assignments[assignmentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if _, ok := st.employees[employeeID]; !ok {
		return nil, storage.ErrConflict
	}
	for id, other := range st.assignments {
		if id != assignmentID && other.ServiceID == a.ServiceID && other.EmployeeID == employeeID {
			return nil, storage.ErrConflict
		}
	}
	a.EmployeeID = employeeID
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	st.assignments[assignmentID] = a
	return &a, nil
}

func (r *assignmentRepo) DeleteByService(_ context.Context, serviceID int64, keepID int64) error {
	defer r.s.lock()()
	st := r.s.data()
	for id, a := range st.assignments {
		if a.ServiceID == serviceID && id != keepID {
			delete(st.assignments, id)
		}
	}
	return nil
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Append(_ context.Context, h *models.ServiceStatusHistory) (*models.ServiceStatusHistory, error) {
	defer r.s.lock()()
	st := r.s.data()
	if _, ok := st.services[h.ServiceID]; !ok {
		return nil, storage.ErrConflict
	}
	created := *h
	created.ID = st.nextID("service_status_history")
	created.ChangedAt = r.s.now()
	if created.ChangedByID != nil {
		if _, ok := st.employees[*created.ChangedByID]; !ok {
			return nil, storage.ErrConflict
		}
	}
	st.history[created.ID] = created
	return &created, nil
}

func (r *historyRepo) ListByService(_ context.Context, serviceID int64) ([]models.ServiceStatusHistory, error) {
	defer r.s.lock()()
	out := []models.ServiceStatusHistory{}
	for _, h := range r.s.data().history {
		if h.ServiceID == serviceID {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b models.ServiceStatusHistory) int {
		return cmp.Or(b.ChangedAt.Compare(a.ChangedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}
