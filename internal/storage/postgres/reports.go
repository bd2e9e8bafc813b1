package postgres

import (
	"context"
	"fmt"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
)

// ReportRepo implements storage.ReportRepository. Each projection is a
// single statement; derived values come from joins and lateral subqueries.
type ReportRepo struct {
	db Querier
}

var _ storage.ReportRepository = (*ReportRepo)(nil)

// latestInvoiceAmount is the lateral subquery that prices a service.
const latestInvoiceAmount = `
	LEFT JOIN LATERAL (
		SELECT i.total_amount
		FROM invoices i
		WHERE i.service_id = s.id
		ORDER BY i.issued_date DESC NULLS LAST, i.created_at DESC, i.id DESC
		LIMIT 1
	) li ON TRUE`

// DashboardCounts matches services scheduled today on either the date column
// or the date of scheduled_start in today's time zone.
func (r *ReportRepo) DashboardCounts(ctx context.Context, today time.Time) (*models.DashboardCounts, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM invoices),
			(SELECT COUNT(*) FROM services WHERE status IN ('scheduled', 'in_progress')),
			(SELECT COUNT(*) FROM services
			  WHERE status IN ('scheduled', 'in_progress')
			    AND (scheduled_date = $1::date OR (scheduled_start AT TIME ZONE $2)::date = $1::date)),
			(SELECT COUNT(DISTINCT a.employee_id)
			   FROM service_assignments a
			   JOIN services s ON s.id = a.service_id
			  WHERE s.status IN ('scheduled', 'in_progress')),
			(SELECT COUNT(*) FROM services WHERE status = 'completed'),
			(SELECT COUNT(*) FROM services)`

	var c models.DashboardCounts
	err := r.db.QueryRow(ctx, query, today.Format(time.DateOnly), today.Location().String()).Scan(
		&c.TotalRevenue, &c.ActiveServices, &c.ServicesToday, &c.CrewsActive, &c.Completed, &c.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
	}
	return &c, nil
}

func (r *ReportRepo) UpcomingServices(ctx context.Context, limit int) ([]models.UpcomingServiceRow, error) {
	query := `
		SELECT s.id, cu.full_name, ce.name, s.scheduled_start, s.status
		FROM services s
		JOIN memorials m ON m.id = s.memorial_id
		JOIN customers cu ON cu.id = m.customer_id
		JOIN plots p ON p.id = m.plot_id
		JOIN cemeteries ce ON ce.id = p.cemetery_id
		WHERE s.status IN ('scheduled', 'in_progress') AND s.scheduled_start IS NOT NULL
		ORDER BY s.scheduled_start ASC, s.created_at ASC, s.id ASC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming services: %w", err)
	}
	out, err := collect(rows, func(row rowScanner) (*models.UpcomingServiceRow, error) {
		var u models.UpcomingServiceRow
		if err := row.Scan(&u.ID, &u.MemorialName, &u.CemeteryName, &u.ScheduledStart, &u.Status); err != nil {
			return nil, err
		}
		return &u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan upcoming services: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) RecentCompletedServices(ctx context.Context, limit int) ([]models.RecentServiceRow, error) {
	query := `
		SELECT s.id, cu.full_name, ce.name, s.completed_date, li.total_amount
		FROM services s
		JOIN memorials m ON m.id = s.memorial_id
		JOIN customers cu ON cu.id = m.customer_id
		JOIN plots p ON p.id = m.plot_id
		JOIN cemeteries ce ON ce.id = p.cemetery_id` + latestInvoiceAmount + `
		WHERE s.status = 'completed'
		ORDER BY s.completed_date DESC NULLS LAST, s.created_at DESC, s.id DESC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent services: %w", err)
	}
	out, err := collect(rows, func(row rowScanner) (*models.RecentServiceRow, error) {
		var rc models.RecentServiceRow
		if err := row.Scan(&rc.ID, &rc.MemorialName, &rc.CemeteryName, &rc.CompletedDate, &rc.Amount); err != nil {
			return nil, err
		}
		return &rc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent services: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) MemorialSummaries(ctx context.Context) ([]models.MemorialSummaryRow, error) {
	query := `
		SELECT m.id, cu.full_name, ce.name, ls.status, ls.completed_date
		FROM memorials m
		JOIN customers cu ON cu.id = m.customer_id
		JOIN plots p ON p.id = m.plot_id
		JOIN cemeteries ce ON ce.id = p.cemetery_id
		LEFT JOIN LATERAL (
			SELECT s.status, s.completed_date
			FROM services s
			WHERE s.memorial_id = m.id
			ORDER BY s.completed_date DESC NULLS LAST, s.created_at DESC, s.id DESC
			LIMIT 1
		) ls ON TRUE
		ORDER BY cu.full_name, m.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query memorial summaries: %w", err)
	}
	out, err := collect(rows, func(row rowScanner) (*models.MemorialSummaryRow, error) {
		var (
			ms     models.MemorialSummaryRow
			status *string
		)
		if err := row.Scan(&ms.ID, &ms.Customer, &ms.Cemetery, &status, &ms.LastServiceDate); err != nil {
			return nil, err
		}
		if status != nil {
			st := models.ServiceStatus(*status)
			ms.LastServiceStatus = &st
		}
		return &ms, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan memorial summaries: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) CustomerSummaries(ctx context.Context) ([]models.CustomerSummaryRow, error) {
	query := `
		SELECT c.id, c.full_name, c.email, c.phone,
		       COUNT(DISTINCT m.id),
		       MAX(s.completed_date)
		FROM customers c
		LEFT JOIN memorials m ON m.customer_id = c.id
		LEFT JOIN services s ON s.memorial_id = m.id
		GROUP BY c.id
		ORDER BY c.full_name, c.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer summaries: %w", err)
	}
	out, err := collect(rows, func(row rowScanner) (*models.CustomerSummaryRow, error) {
		var cs models.CustomerSummaryRow
		if err := row.Scan(&cs.ID, &cs.FullName, &cs.Email, &cs.Phone, &cs.MemorialsCount, &cs.LastContact); err != nil {
			return nil, err
		}
		return &cs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer summaries: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) CemeterySummaries(ctx context.Context) ([]models.CemeterySummaryRow, error) {
	query := `
		SELECT ce.id, ce.name, ce.city,
		       COUNT(DISTINCT m.id),
		       COUNT(DISTINCT s.id) FILTER (WHERE s.status IN ('scheduled', 'in_progress'))
		FROM cemeteries ce
		LEFT JOIN plots p ON p.cemetery_id = ce.id
		LEFT JOIN memorials m ON m.plot_id = p.id
		LEFT JOIN services s ON s.memorial_id = m.id
		GROUP BY ce.id
		ORDER BY ce.name, ce.id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cemetery summaries: %w", err)
	}
	out, err := collect(rows, func(row rowScanner) (*models.CemeterySummaryRow, error) {
		var cs models.CemeterySummaryRow
		if err := row.Scan(&cs.ID, &cs.Name, &cs.City, &cs.MemorialsCount, &cs.ActiveServices); err != nil {
			return nil, err
		}
		return &cs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cemetery summaries: %w", err)
	}
	return out, nil
}

// schedulingSelect projects a service onto the scheduling board. The
// technician is the most recently assigned employee.
const schedulingSelect = `
	SELECT s.id, s.service_type, s.status, s.scheduled_start, s.estimated_minutes,
	       cu.full_name, ce.name, ta.employee_id, ta.full_name, li.total_amount,
	       p.gps_lat, p.gps_lng, s.created_at
	FROM services s
	JOIN memorials m ON m.id = s.memorial_id
	JOIN customers cu ON cu.id = m.customer_id
	JOIN plots p ON p.id = m.plot_id
	JOIN cemeteries ce ON ce.id = p.cemetery_id
	LEFT JOIN LATERAL (
		SELECT a.employee_id, e.full_name
		FROM service_assignments a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.service_id = s.id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT 1
	) ta ON TRUE` + latestInvoiceAmount

func scanSchedulingRow(row rowScanner) (*models.SchedulingServiceRow, error) {
	var sr models.SchedulingServiceRow
	err := row.Scan(&sr.ID, &sr.ServiceType, &sr.Status, &sr.ScheduledStart, &sr.EstimatedMinutes,
		&sr.MemorialName, &sr.CemeteryName, &sr.TechnicianID, &sr.TechnicianName, &sr.Price,
		&sr.GPSLat, &sr.GPSLng, &sr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *ReportRepo) SchedulingBoard(ctx context.Context) ([]models.SchedulingServiceRow, error) {
	query := schedulingSelect + `
		WHERE s.status IN ('draft', 'scheduled', 'in_progress')
		ORDER BY s.scheduled_start ASC NULLS LAST, s.created_at DESC, s.id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduling board: %w", err)
	}
	out, err := collect(rows, scanSchedulingRow)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scheduling board: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) SchedulingService(ctx context.Context, serviceID int64) (*models.SchedulingServiceRow, error) {
	sr, err := scanSchedulingRow(r.db.QueryRow(ctx, schedulingSelect+` WHERE s.id = $1`, serviceID))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to project service %d", serviceID))
	}
	return sr, nil
}
