package services

import (
	"context"
	"fmt"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/metrics"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SchedulingOptions are the tunables of the scheduling workflow.
type SchedulingOptions struct {
	// MaxTechniciansPerService caps assignments per service. At capacity the
	// oldest assignment is handed to the new technician.
	MaxTechniciansPerService int
	// RejectClosedAssignments refuses to assign completed or canceled
	// services. By default assignment reopens them as scheduled.
	RejectClosedAssignments bool
	Location                *time.Location
}

type schedulingService struct {
	store    storage.Store
	pricing  PricingService
	validate *validator.Validate
	cache    cache.Cache
	metrics  *metrics.Metrics
	now      Clock
	opts     SchedulingOptions
	logger   *zap.Logger
}

// NewSchedulingService creates a new instance of SchedulingService.
func NewSchedulingService(
	store storage.Store,
	pricing PricingService,
	validate *validator.Validate,
	c cache.Cache,
	m *metrics.Metrics,
	now Clock,
	opts SchedulingOptions,
	logger *zap.Logger,
) SchedulingService {
	if opts.MaxTechniciansPerService < 1 {
		opts.MaxTechniciansPerService = 1
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &schedulingService{
		store:    store,
		pricing:  pricing,
		validate: validate,
		cache:    c,
		metrics:  m,
		now:      now,
		opts:     opts,
		logger:   logger.Named("scheduling"),
	}
}

func (s *schedulingService) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*models.SchedulingServiceRow, error) {
	if req.MemorialID > 0 {
		if _, err := s.store.Memorials().GetByID(ctx, req.MemorialID); err != nil {
			return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding memorial %d", req.MemorialID))
		}
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = models.ServiceTypeOther
	}

	var created *models.Service
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		created, err = tx.Services().Create(ctx, &models.Service{
			MemorialID:  req.MemorialID,
			ServiceType: serviceType,
			Status:      models.ServiceStatusDraft,
		})
		if err != nil {
			return MapRepoError(s.logger, err, "creating service")
		}
		if err := s.appendHistory(ctx, tx, created.ID, "", models.ServiceStatusDraft, req.ChangedByID); err != nil {
			return err
		}
		return s.pricing.SetServicePrice(ctx, tx, created, req.InitialPrice)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, s.logger)
	s.logger.Info("Service created", zap.Int64("service_id", created.ID), zap.Int64("memorial_id", req.MemorialID))
	return s.project(ctx, created.ID)
}

// AssignTechnician schedules a service and hands it to a technician. The
// service ends up scheduled whatever its prior status. The assignment,
// status change, price and plot GPS are written atomically.
func (s *schedulingService) AssignTechnician(ctx context.Context, req *dto.AssignTechnicianRequest) (*models.SchedulingServiceRow, error) {
	if _, err := s.store.Services().GetByID(ctx, req.ServiceID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding service %d", req.ServiceID))
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	tech, err := s.store.Employees().GetByID(ctx, req.TechnicianID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding technician %d", req.TechnicianID))
	}
	if !tech.IsActiveTechnician() {
		return nil, fmt.Errorf("%w: technician %d", ErrNotFound, req.TechnicianID)
	}

	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		svc, err := tx.Services().GetByIDForUpdate(ctx, req.ServiceID)
		if err != nil {
			return MapRepoError(s.logger, err, "locking service")
		}
		if s.opts.RejectClosedAssignments && svc.Status.IsClosed() {
			return fmt.Errorf("%w: cannot assign a technician to a %s service", ErrInvalidTransition, svc.Status)
		}
		if err := s.assign(ctx, tx, svc.ID, tech.ID); err != nil {
			return err
		}

		oldStatus := svc.Status
		start := *req.ScheduledStart
		scheduledDate := dateOf(start, s.opts.Location)
		minutes := req.EstimatedMinutes
		svc.ScheduledStart = &start
		svc.ScheduledDate = &scheduledDate
		svc.EstimatedMinutes = &minutes
		svc.Status = models.ServiceStatusScheduled
		if svc, err = tx.Services().Update(ctx, svc); err != nil {
			return MapRepoError(s.logger, err, "updating service schedule")
		}
		if oldStatus != svc.Status {
			if err := s.appendHistory(ctx, tx, svc.ID, oldStatus, svc.Status, req.ChangedByID); err != nil {
				return err
			}
		}

		if err := s.pricing.SetServicePrice(ctx, tx, svc, req.Price); err != nil {
			return err
		}
		if req.GPSLat != nil && req.GPSLng != nil {
			memorial, err := tx.Memorials().GetByID(ctx, svc.MemorialID)
			if err != nil {
				return MapRepoError(s.logger, err, "finding memorial")
			}
			if err := tx.Plots().UpdateGPS(ctx, memorial.PlotID, *req.GPSLat, *req.GPSLng); err != nil {
				return MapRepoError(s.logger, err, "updating plot gps")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.logger)
	s.metrics.AssignmentRecorded()
	s.logger.Info("Technician assigned",
		zap.Int64("service_id", req.ServiceID),
		zap.Int64("technician_id", tech.ID),
		zap.Time("scheduled_start", *req.ScheduledStart),
	)
	return s.project(ctx, req.ServiceID)
}

// assign applies the capacity rule. Re-assigning a technician who is
// already on the service changes nothing.
func (s *schedulingService) assign(ctx context.Context, tx storage.Store, serviceID, employeeID int64) error {
	current, err := tx.Assignments().ListByService(ctx, serviceID)
	if err != nil {
		return MapRepoError(s.logger, err, "listing assignments")
	}
	for _, a := range current {
		if a.EmployeeID == employeeID {
			return nil
		}
	}

	if len(current) < s.opts.MaxTechniciansPerService {
		role := models.AssignmentRoleHelper
		if len(current) == 0 {
			role = models.AssignmentRoleLead
		}
		_, err := tx.Assignments().Create(ctx, &models.ServiceAssignment{
			ServiceID:  serviceID,
			EmployeeID: employeeID,
			Role:       role,
		})
		if err != nil {
			return MapRepoError(s.logger, err, "creating assignment")
		}
		return nil
	}

	// At capacity: the oldest assignment goes to the new technician.
	oldest := current[0]
	if _, err := tx.Assignments().ReplaceEmployee(ctx, oldest.ID, employeeID); err != nil {
		return MapRepoError(s.logger, err, "replacing assignment")
	}
	if s.opts.MaxTechniciansPerService == 1 && len(current) > 1 {
		if err := tx.Assignments().DeleteByService(ctx, serviceID, oldest.ID); err != nil {
			return MapRepoError(s.logger, err, "pruning assignments")
		}
	}
	return nil
}

func (s *schedulingService) UpdateServiceStatus(ctx context.Context, req *dto.UpdateServiceStatusRequest) (*models.SchedulingServiceRow, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		svc, err := tx.Services().GetByIDForUpdate(ctx, req.ServiceID)
		if err != nil {
			return MapRepoError(s.logger, err, fmt.Sprintf("finding service %d", req.ServiceID))
		}
		if !isValidServiceTransition(svc.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, svc.Status, req.Status)
		}
		if svc.Status == req.Status {
			return nil
		}
		oldStatus := svc.Status
		svc.Status = req.Status
		if req.Status == models.ServiceStatusCompleted {
			today := dateOf(s.now(), s.opts.Location)
			svc.CompletedDate = &today
		}
		if _, err := tx.Services().Update(ctx, svc); err != nil {
			return MapRepoError(s.logger, err, "updating service status")
		}
		return s.appendHistory(ctx, tx, svc.ID, oldStatus, req.Status, req.ChangedByID)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx, s.cache, s.logger)
	s.logger.Info("Service status changed", zap.Int64("service_id", req.ServiceID), zap.String("status", string(req.Status)))
	return s.project(ctx, req.ServiceID)
}

func (s *schedulingService) ListServiceHistory(ctx context.Context, serviceID int64) ([]models.ServiceStatusHistory, error) {
	if _, err := s.store.Services().GetByID(ctx, serviceID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding service %d", serviceID))
	}
	history, err := s.store.StatusHistory().ListByService(ctx, serviceID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing status history")
	}
	return history, nil
}

func (s *schedulingService) ListBoard(ctx context.Context) ([]models.SchedulingServiceRow, error) {
	rows, err := s.store.Reports().SchedulingBoard(ctx)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing scheduling board")
	}
	return rows, nil
}

func (s *schedulingService) appendHistory(ctx context.Context, tx storage.Store, serviceID int64, from, to models.ServiceStatus, changedBy *int64) error {
	_, err := tx.StatusHistory().Append(ctx, &models.ServiceStatusHistory{
		ServiceID:   serviceID,
		OldStatus:   from,
		NewStatus:   to,
		ChangedByID: changedBy,
	})
	if err != nil {
		return MapRepoError(s.logger, err, "recording status history")
	}
	return nil
}

func (s *schedulingService) project(ctx context.Context, serviceID int64) (*models.SchedulingServiceRow, error) {
	row, err := s.store.Reports().SchedulingService(ctx, serviceID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("projecting service %d", serviceID))
	}
	return row, nil
}
