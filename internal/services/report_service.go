package services

import (
	"context"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dashboardListLimit = 5

// DashboardReport is the cached dashboard read model.
type DashboardReport struct {
	Counts         models.DashboardCounts      `json:"counts"`
	CompletionRate float64                     `json:"completion_rate"`
	Upcoming       []models.UpcomingServiceRow `json:"upcoming"`
	Recent         []models.RecentServiceRow   `json:"recent"`
}

type reportService struct {
	store  storage.Store
	cache  cache.Cache
	ttl    time.Duration
	now    Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewReportService creates a ReportService. A nil cache disables caching.
func NewReportService(store storage.Store, c cache.Cache, ttl time.Duration, now Clock, loc *time.Location, logger *zap.Logger) ReportService {
	return &reportService{store: store, cache: c, ttl: ttl, now: now, loc: loc, logger: logger.Named("reports")}
}

// CompletionRate is completed/total as a percentage with one decimal,
// rounding half to even. Zero services give 0.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := decimal.NewFromInt(int64(completed) * 100).Div(decimal.NewFromInt(int64(total)))
	return rate.RoundBank(1).InexactFloat64()
}

func (s *reportService) DashboardSummary(ctx context.Context) (*DashboardReport, error) {
	if s.cache != nil && s.ttl > 0 {
		var cached DashboardReport
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	reports := s.store.Reports()
	counts, err := reports.DashboardCounts(ctx, s.now().In(s.loc))
	if err != nil {
		return nil, MapRepoError(s.logger, err, "computing dashboard counts")
	}
	upcoming, err := reports.UpcomingServices(ctx, dashboardListLimit)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing upcoming services")
	}
	recent, err := reports.RecentCompletedServices(ctx, dashboardListLimit)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing recent services")
	}

	report := &DashboardReport{
		Counts:         *counts,
		CompletionRate: CompletionRate(counts.Completed, counts.Total),
		Upcoming:       upcoming,
		Recent:         recent,
	}
	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, dashboardCacheKey, report, s.ttl); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

func (s *reportService) ListMemorialSummaries(ctx context.Context) ([]models.MemorialSummaryRow, error) {
	rows, err := s.store.Reports().MemorialSummaries(ctx)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing memorials")
	}
	return rows, nil
}

func (s *reportService) ListCustomerSummaries(ctx context.Context) ([]models.CustomerSummaryRow, error) {
	rows, err := s.store.Reports().CustomerSummaries(ctx)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing customers")
	}
	return rows, nil
}

func (s *reportService) ListCemeterySummaries(ctx context.Context) ([]models.CemeterySummaryRow, error) {
	rows, err := s.store.Reports().CemeterySummaries(ctx)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing cemeteries")
	}
	return rows, nil
}

func (s *reportService) ListTechnicians(ctx context.Context) ([]models.Employee, error) {
	techs, err := s.store.Employees().ListActiveTechnicians(ctx)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing technicians")
	}
	return techs, nil
}
