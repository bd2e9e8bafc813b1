package app

import (
	"context"
	"time"

	"headstone-api/config"
	"headstone-api/internal/cache"
	"headstone-api/internal/mailer"
	"headstone-api/internal/metrics"
	"headstone-api/internal/services"
	"headstone-api/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Deps are the infrastructure pieces main.go (or a test) connects before
// the services are built.
type Deps struct {
	Store   storage.Store
	Cache   cache.Cache
	Sender  mailer.Sender
	Metrics *metrics.Metrics
	Now     services.Clock
	// HealthChecks are probed by /health, keyed by dependency name.
	HealthChecks map[string]func(ctx context.Context) error
	// BcryptCost defaults to bcrypt.DefaultCost; tests lower it.
	BcryptCost int
}

// Services groups the business services the routes are built from.
type Services struct {
	Scheduling    services.SchedulingService
	Reports       services.ReportService
	Notifications services.NotificationService
	Customers     services.CustomerService
	Employees     services.EmployeeService
	Auth          services.AuthService
	Records       services.RecordService
	Billing       services.BillingService
}

// Application holds core application dependencies.
type Application struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Services     Services
	HealthChecks map[string]func(ctx context.Context) error
}

// New builds every service on top of deps.
func New(cfg *config.Config, logger *zap.Logger, deps Deps) (*Application, error) {
	loc, err := cfg.Scheduling.Location()
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	validate := services.NewValidator()
	pricing := services.NewPricingService(now, loc, logger)

	return &Application{
		Config:       cfg,
		Logger:       logger,
		Metrics:      deps.Metrics,
		HealthChecks: deps.HealthChecks,
		Services: Services{
			Scheduling: services.NewSchedulingService(deps.Store, pricing, validate, deps.Cache, deps.Metrics, now,
				services.SchedulingOptions{
					MaxTechniciansPerService: cfg.Scheduling.MaxTechniciansPerService,
					RejectClosedAssignments:  cfg.Scheduling.RejectClosedAssignments,
					Location:                 loc,
				}, logger),
			Reports:       services.NewReportService(deps.Store, deps.Cache, cfg.Cache.DashboardTTL, now, loc, logger),
			Notifications: services.NewNotificationService(deps.Store, deps.Sender, validate, deps.Metrics, logger),
			Customers:     services.NewCustomerService(deps.Store, validate, deps.Cache, logger),
			Employees:     services.NewEmployeeService(deps.Store, validate, cost, logger),
			Auth:          services.NewAuthService(deps.Store, validate, cfg.JWT.Secret, cfg.JWT.Expiration, now, logger),
			Records:       services.NewRecordService(deps.Store, validate, deps.Cache, logger),
			Billing:       services.NewBillingService(deps.Store, validate, deps.Cache, now, logger),
		},
	}, nil
}
