package postgres

import (
	"context"
	"fmt"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
)

// ServiceRepo implements storage.ServiceRepository.
type ServiceRepo struct {
	db Querier
}

var _ storage.ServiceRepository = (*ServiceRepo)(nil)

const serviceColumns = `id, memorial_id, service_type, status, scheduled_date, scheduled_start, estimated_minutes,
	completed_date, estimated_cost, actual_cost, internal_notes, created_at, updated_at`

func scanService(row rowScanner) (*models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.MemorialID, &s.ServiceType, &s.Status, &s.ScheduledDate, &s.ScheduledStart,
		&s.EstimatedMinutes, &s.CompletedDate, &s.EstimatedCost, &s.ActualCost, &s.InternalNotes,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get service %d", id))
	}
	return s, nil
}

func (r *ServiceRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Service, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to lock service %d", id))
	}
	return s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *models.Service) (*models.Service, error) {
	query := `
		INSERT INTO services (memorial_id, service_type, status, scheduled_date, scheduled_start, estimated_minutes,
			completed_date, estimated_cost, actual_cost, internal_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + serviceColumns
	created, err := scanService(r.db.QueryRow(ctx, query,
		s.MemorialID, string(s.ServiceType), s.Status, s.ScheduledDate, s.ScheduledStart, s.EstimatedMinutes,
		s.CompletedDate, s.EstimatedCost, s.ActualCost, s.InternalNotes))
	if err != nil {
		return nil, mapWriteError(err, "failed to create service")
	}
	return created, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *models.Service) (*models.Service, error) {
	query := `
		UPDATE services
		SET service_type = $2, status = $3, scheduled_date = $4, scheduled_start = $5, estimated_minutes = $6,
		    completed_date = $7, estimated_cost = $8, actual_cost = $9, internal_notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + serviceColumns
	updated, err := scanService(r.db.QueryRow(ctx, query,
		s.ID, string(s.ServiceType), s.Status, s.ScheduledDate, s.ScheduledStart, s.EstimatedMinutes,
		s.CompletedDate, s.EstimatedCost, s.ActualCost, s.InternalNotes))
	if err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("failed to update service %d", s.ID))
	}
	return updated, nil
}

func (r *ServiceRepo) CountByMemorial(ctx context.Context, memorialID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services WHERE memorial_id = $1`, memorialID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count services of memorial %d: %w", memorialID, err)
	}
	return n, nil
}

// AssignmentRepo implements storage.AssignmentRepository.
type AssignmentRepo struct {
	db Querier
}

var _ storage.AssignmentRepository = (*AssignmentRepo)(nil)

const assignmentColumns = `id, service_id, employee_id, role, notes, created_at, updated_at`

func scanAssignment(row rowScanner) (*models.ServiceAssignment, error) {
	var a models.ServiceAssignment
	if err := row.Scan(&a.ID, &a.ServiceID, &a.EmployeeID, &a.Role, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepo) ListByService(ctx context.Context, serviceID int64) ([]models.ServiceAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM service_assignments WHERE service_id = $1 ORDER BY created_at, id`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments of service %d: %w", serviceID, err)
	}
	out, err := collect(rows, scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignments: %w", err)
	}
	return out, nil
}

func (r *AssignmentRepo) Create(ctx context.Context, a *models.ServiceAssignment) (*models.ServiceAssignment, error) {
	query := `
		INSERT INTO service_assignments (service_id, employee_id, role, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + assignmentColumns
	created, err := scanAssignment(r.db.QueryRow(ctx, query, a.ServiceID, a.EmployeeID, string(a.Role), a.Notes))
	if err != nil {
		return nil, mapWriteError(err, "failed to create assignment")
	}
	return created, nil
}

// ReplaceEmployee moves an existing assignment to another employee and
// refreshes its timestamps so it counts as the newest.
func (r *AssignmentRepo) ReplaceEmployee(ctx context.Context, assignmentID, employeeID int64) (*models.ServiceAssignment, error) {
	query := `
		UPDATE service_assignments
		SET employee_id = $2, created_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + assignmentColumns
	updated, err := scanAssignment(r.db.QueryRow(ctx, query, assignmentID, employeeID))
	if err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("failed to update assignment %d", assignmentID))
	}
	return updated, nil
}

// DeleteByService removes every assignment of the service except keepID.
func (r *AssignmentRepo) DeleteByService(ctx context.Context, serviceID int64, keepID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM service_assignments WHERE service_id = $1 AND id <> $2`, serviceID, keepID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to prune assignments of service %d", serviceID))
	}
	return nil
}

// StatusHistoryRepo implements storage.StatusHistoryRepository.
type StatusHistoryRepo struct {
	db Querier
}

var _ storage.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

const historyColumns = `id, service_id, old_status, new_status, changed_by, changed_at`

func scanHistory(row rowScanner) (*models.ServiceStatusHistory, error) {
	var h models.ServiceStatusHistory
	var oldStatus string
	if err := row.Scan(&h.ID, &h.ServiceID, &oldStatus, &h.NewStatus, &h.ChangedByID, &h.ChangedAt); err != nil {
		return nil, err
	}
	h.OldStatus = models.ServiceStatus(oldStatus)
	return &h, nil
}

func (r *StatusHistoryRepo) Append(ctx context.Context, h *models.ServiceStatusHistory) (*models.ServiceStatusHistory, error) {
	query := `
		INSERT INTO service_status_history (service_id, old_status, new_status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + historyColumns
	created, err := scanHistory(r.db.QueryRow(ctx, query, h.ServiceID, string(h.OldStatus), string(h.NewStatus), h.ChangedByID))
	if err != nil {
		return nil, mapWriteError(err, "failed to append status history")
	}
	return created, nil
}

func (r *StatusHistoryRepo) ListByService(ctx context.Context, serviceID int64) ([]models.ServiceStatusHistory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+historyColumns+` FROM service_status_history WHERE service_id = $1 ORDER BY changed_at DESC, id DESC`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history of service %d: %w", serviceID, err)
	}
	out, err := collect(rows, scanHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to scan status history: %w", err)
	}
	return out, nil
}
