package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type recordService struct {
	store    storage.Store
	validate *validator.Validate
	cache    cache.Cache
	logger   *zap.Logger
}

// NewRecordService creates a new instance of RecordService.
func NewRecordService(store storage.Store, validate *validator.Validate, c cache.Cache, logger *zap.Logger) RecordService {
	return &recordService{store: store, validate: validate, cache: c, logger: logger.Named("records")}
}

func (s *recordService) CreateCemetery(ctx context.Context, req *dto.CreateCemeteryRequest) (*models.Cemetery, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	cemetery, err := s.store.Cemeteries().Create(ctx, &models.Cemetery{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, MapRepoError(s.logger, err, "creating cemetery")
	}
	return cemetery, nil
}

func (s *recordService) CreatePlot(ctx context.Context, req *dto.CreatePlotRequest) (*models.Plot, error) {
	if _, err := s.store.Cemeteries().GetByID(ctx, req.CemeteryID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding cemetery %d", req.CemeteryID))
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	plot, err := s.store.Plots().Create(ctx, &models.Plot{
		CemeteryID:  req.CemeteryID,
		Section:     req.Section,
		Row:         req.Row,
		PlotNumber:  req.PlotNumber,
		GPSLat:      req.GPSLat,
		GPSLng:      req.GPSLng,
		AccessNotes: req.AccessNotes,
	})
	if err != nil {
		return nil, MapRepoError(s.logger, err, "creating plot")
	}
	return plot, nil
}

// DeletePlot fails with ErrConflict while a memorial stands on the plot.
func (s *recordService) DeletePlot(ctx context.Context, id int64) error {
	if err := s.store.Plots().Delete(ctx, id); err != nil {
		return MapRepoError(s.logger, err, fmt.Sprintf("deleting plot %d", id))
	}
	return nil
}

func (s *recordService) CreateMemorial(ctx context.Context, req *dto.CreateMemorialRequest) (*models.Memorial, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if _, err := s.store.Customers().GetByID(ctx, req.CustomerID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding customer %d", req.CustomerID))
	}
	if _, err := s.store.Plots().GetByID(ctx, req.PlotID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding plot %d", req.PlotID))
	}
	material := req.Material
	if material == "" {
		material = models.MaterialOther
	}
	var installDate *time.Time
	if req.InstallDate != nil {
		d, err := time.Parse(time.DateOnly, *req.InstallDate)
		if err != nil {
			return nil, fieldError("install_date", "Date has wrong format. Use 2006-01-02.")
		}
		installDate = &d
	}
	memorial, err := s.store.Memorials().Create(ctx, &models.Memorial{
		CustomerID:       req.CustomerID,
		PlotID:           req.PlotID,
		Material:         material,
		InscriptionText:  req.InscriptionText,
		ConditionSummary: req.ConditionSummary,
		InstallDate:      installDate,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, MapRepoError(s.logger, err, "creating memorial")
	}
	return memorial, nil
}

// DeleteMemorial refuses to drop a memorial that has service history.
func (s *recordService) DeleteMemorial(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.Memorials().GetByID(ctx, id); err != nil {
			return MapRepoError(s.logger, err, fmt.Sprintf("finding memorial %d", id))
		}
		n, err := tx.Services().CountByMemorial(ctx, id)
		if err != nil {
			return MapRepoError(s.logger, err, "counting services")
		}
		if n > 0 {
			return fmt.Errorf("%w: memorial %d has %d services", ErrConflict, id, n)
		}
		if err := tx.Memorials().Delete(ctx, id); err != nil {
			return MapRepoError(s.logger, err, fmt.Sprintf("deleting memorial %d", id))
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

func (s *recordService) ListPhotos(ctx context.Context, memorialID int64) ([]models.Photo, error) {
	if _, err := s.store.Memorials().GetByID(ctx, memorialID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding memorial %d", memorialID))
	}
	photos, err := s.store.Photos().ListByMemorial(ctx, memorialID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing photos")
	}
	return photos, nil
}

func (s *recordService) AddPhoto(ctx context.Context, req *dto.CreatePhotoRequest) (*models.Photo, error) {
	if _, err := s.store.Memorials().GetByID(ctx, req.MemorialID); err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding memorial %d", req.MemorialID))
	}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if req.ServiceID != nil {
		svc, err := s.store.Services().GetByID(ctx, *req.ServiceID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, MapRepoError(s.logger, err, "finding photo service")
		}
		if err != nil || svc.MemorialID != req.MemorialID {
			return nil, fieldError("service_id", "Service does not belong to this memorial.")
		}
	}
	photoType := req.PhotoType
	if photoType == "" {
		photoType = models.PhotoTypeOther
	}
	photo, err := s.store.Photos().Create(ctx, &models.Photo{
		MemorialID: req.MemorialID,
		ServiceID:  req.ServiceID,
		PhotoType:  photoType,
		ImageURL:   req.ImageURL,
		Caption:    req.Caption,
	})
	if err != nil {
		return nil, MapRepoError(s.logger, err, "creating photo")
	}
	return photo, nil
}
