package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"github.com/shopspring/decimal"
)

type reportRepo struct{ s *Store }

// serviceContext resolves the names shared by every service projection.
func (st *state) serviceContext(svc models.Service) (customerName, cemeteryName string, plot models.Plot) {
	m := st.memorials[svc.MemorialID]
	plot = st.plots[m.PlotID]
	return st.customers[m.CustomerID].FullName, st.cemeteries[plot.CemeteryID].Name, plot
}

func (st *state) invoiceAmount(serviceID int64) *decimal.Decimal {
	inv, ok := st.latestInvoice(serviceID)
	if !ok {
		return nil
	}
	amount := inv.TotalAmount
	return &amount
}

func sameDate(t time.Time, day string, loc *time.Location) bool {
	return t.In(loc).Format(time.DateOnly) == day
}

func (r *reportRepo) DashboardCounts(_ context.Context, today time.Time) (*models.DashboardCounts, error) {
	defer r.s.lock()()
	st := r.s.data()
	day := today.Format(time.DateOnly)
	loc := today.Location()

	c := &models.DashboardCounts{TotalRevenue: decimal.Zero}
	for _, inv := range st.invoices {
		c.TotalRevenue = c.TotalRevenue.Add(inv.TotalAmount)
	}
	active := map[int64]bool{}
	for _, svc := range st.services {
		c.Total++
		if svc.Status == models.ServiceStatusCompleted {
			c.Completed++
		}
		if !svc.Status.IsActive() {
			continue
		}
		active[svc.ID] = true
		c.ActiveServices++
		if (svc.ScheduledDate != nil && svc.ScheduledDate.Format(time.DateOnly) == day) ||
			(svc.ScheduledStart != nil && sameDate(*svc.ScheduledStart, day, loc)) {
			c.ServicesToday++
		}
	}
	crews := map[int64]bool{}
	for _, a := range st.assignments {
		if active[a.ServiceID] {
			crews[a.EmployeeID] = true
		}
	}
	c.CrewsActive = len(crews)
	return c, nil
}

func (r *reportRepo) UpcomingServices(_ context.Context, limit int) ([]models.UpcomingServiceRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	var candidates []models.Service
	for _, svc := range st.services {
		if svc.Status.IsActive() && svc.ScheduledStart != nil {
			candidates = append(candidates, svc)
		}
	}
	slices.SortFunc(candidates, func(a, b models.Service) int {
		return cmp.Or(a.ScheduledStart.Compare(*b.ScheduledStart), a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	out := []models.UpcomingServiceRow{}
	for _, svc := range candidates {
		if len(out) == limit {
			break
		}
		customer, cemetery, _ := st.serviceContext(svc)
		out = append(out, models.UpcomingServiceRow{
			ID:             svc.ID,
			MemorialName:   customer,
			CemeteryName:   cemetery,
			ScheduledStart: svc.ScheduledStart,
			Status:         svc.Status,
		})
	}
	return out, nil
}

// compareNewestCompletion orders by completed date (nulls last), then
// creation time, then id, all descending.
func compareNewestCompletion(a, b models.Service) int {
	switch {
	case a.CompletedDate == nil && b.CompletedDate != nil:
		return 1
	case a.CompletedDate != nil && b.CompletedDate == nil:
		return -1
	case a.CompletedDate != nil && b.CompletedDate != nil:
		if c := b.CompletedDate.Compare(*a.CompletedDate); c != 0 {
			return c
		}
	}
	return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
}

func (r *reportRepo) RecentCompletedServices(_ context.Context, limit int) ([]models.RecentServiceRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	var candidates []models.Service
	for _, svc := range st.services {
		if svc.Status == models.ServiceStatusCompleted {
			candidates = append(candidates, svc)
		}
	}
	slices.SortFunc(candidates, compareNewestCompletion)
	out := []models.RecentServiceRow{}
	for _, svc := range candidates {
		if len(out) == limit {
			break
		}
		customer, cemetery, _ := st.serviceContext(svc)
		out = append(out, models.RecentServiceRow{
			ID:            svc.ID,
			MemorialName:  customer,
			CemeteryName:  cemetery,
			CompletedDate: svc.CompletedDate,
			Amount:        st.invoiceAmount(svc.ID),
		})
	}
	return out, nil
}

func (r *reportRepo) MemorialSummaries(_ context.Context) ([]models.MemorialSummaryRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.MemorialSummaryRow{}
	for _, m := range st.memorials {
		plot := st.plots[m.PlotID]
		row := models.MemorialSummaryRow{
			ID:       m.ID,
			Customer: st.customers[m.CustomerID].FullName,
			Cemetery: st.cemeteries[plot.CemeteryID].Name,
		}
		var services []models.Service
		for _, svc := range st.services {
			if svc.MemorialID == m.ID {
				services = append(services, svc)
			}
		}
		if len(services) > 0 {
			slices.SortFunc(services, compareNewestCompletion)
			status := services[0].Status
			row.LastServiceStatus = &status
			row.LastServiceDate = services[0].CompletedDate
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b models.MemorialSummaryRow) int {
		return cmp.Or(cmp.Compare(a.Customer, b.Customer), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *reportRepo) CustomerSummaries(_ context.Context) ([]models.CustomerSummaryRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.CustomerSummaryRow{}
	for _, c := range st.customers {
		row := models.CustomerSummaryRow{ID: c.ID, FullName: c.FullName, Email: c.Email, Phone: c.Phone}
		for _, m := range st.memorials {
			if m.CustomerID != c.ID {
				continue
			}
			row.MemorialsCount++
			for _, svc := range st.services {
				if svc.MemorialID != m.ID || svc.CompletedDate == nil {
					continue
				}
				if row.LastContact == nil || svc.CompletedDate.After(*row.LastContact) {
					d := *svc.CompletedDate
					row.LastContact = &d
				}
			}
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b models.CustomerSummaryRow) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *reportRepo) CemeterySummaries(_ context.Context) ([]models.CemeterySummaryRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.CemeterySummaryRow{}
	for _, ce := range st.cemeteries {
		row := models.CemeterySummaryRow{ID: ce.ID, Name: ce.Name, City: ce.City}
		for _, m := range st.memorials {
			if st.plots[m.PlotID].CemeteryID != ce.ID {
				continue
			}
			row.MemorialsCount++
			for _, svc := range st.services {
				if svc.MemorialID == m.ID && svc.Status.IsActive() {
					row.ActiveServices++
				}
			}
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b models.CemeterySummaryRow) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (st *state) schedulingRow(svc models.Service) models.SchedulingServiceRow {
	customer, cemetery, plot := st.serviceContext(svc)
	row := models.SchedulingServiceRow{
		ID:               svc.ID,
		ServiceType:      svc.ServiceType,
		Status:           svc.Status,
		ScheduledStart:   svc.ScheduledStart,
		EstimatedMinutes: svc.EstimatedMinutes,
		MemorialName:     customer,
		CemeteryName:     cemetery,
		Price:            st.invoiceAmount(svc.ID),
		GPSLat:           plot.GPSLat,
		GPSLng:           plot.GPSLng,
		CreatedAt:        svc.CreatedAt,
	}
	if assigned := st.assignmentsOf(svc.ID); len(assigned) > 0 {
		latest := assigned[len(assigned)-1]
		techID := latest.EmployeeID
		techName := st.employees[techID].FullName
		row.TechnicianID = &techID
		row.TechnicianName = &techName
	}
	return row
}

func (r *reportRepo) SchedulingBoard(_ context.Context) ([]models.SchedulingServiceRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	out := []models.SchedulingServiceRow{}
	for _, svc := range st.services {
		if slices.Contains(models.BoardServiceStatuses, svc.Status) {
			out = append(out, st.schedulingRow(svc))
		}
	}
	slices.SortFunc(out, func(a, b models.SchedulingServiceRow) int {
		switch {
		case a.ScheduledStart == nil && b.ScheduledStart != nil:
			return 1
		case a.ScheduledStart != nil && b.ScheduledStart == nil:
			return -1
		case a.ScheduledStart != nil && b.ScheduledStart != nil:
			if c := a.ScheduledStart.Compare(*b.ScheduledStart); c != 0 {
				return c
			}
		}
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (r *reportRepo) SchedulingService(_ context.Context, serviceID int64) (*models.SchedulingServiceRow, error) {
	defer r.s.lock()()
	st := r.s.data()
	svc, ok := st.services[serviceID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	row := st.schedulingRow(svc)
	return &row, nil
}
