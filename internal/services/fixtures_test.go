package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/storage/memory"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testClock ticks one second per reading so creation order is total.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(start time.Time) *testClock { return &testClock{t: start} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	clock    *testClock
	validate *validator.Validate
	cache    *cache.MemoryCache
	logger   *zap.Logger
}

var fixtureStart = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newTestClock(fixtureStart)
	return &fixture{
		ctx:      context.Background(),
		store:    memory.NewStore(clock.Now),
		clock:    clock,
		validate: services.NewValidator(),
		cache:    cache.NewMemoryCache(time.Minute),
		logger:   zap.NewNop(),
	}
}

func (f *fixture) pricing() services.PricingService {
	return services.NewPricingService(f.clock.Now, time.UTC, f.logger)
}

func (f *fixture) scheduling(capacity int) services.SchedulingService {
	return f.schedulingIn(capacity, time.UTC)
}

func (f *fixture) schedulingIn(capacity int, loc *time.Location) services.SchedulingService {
	return f.schedulingWith(services.SchedulingOptions{MaxTechniciansPerService: capacity, Location: loc})
}

func (f *fixture) schedulingWith(opts services.SchedulingOptions) services.SchedulingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return services.NewSchedulingService(
		f.store,
		services.NewPricingService(f.clock.Now, opts.Location, f.logger),
		f.validate,
		f.cache,
		nil,
		f.clock.Now,
		opts,
		f.logger,
	)
}

func (f *fixture) reports() services.ReportService {
	return services.NewReportService(f.store, f.cache, time.Minute, f.clock.Now, time.UTC, f.logger)
}

func (f *fixture) customer(t *testing.T, name, email string) *models.Customer {
	t.Helper()
	c, err := f.store.Customers().Create(f.ctx, &models.Customer{FullName: name, Email: email})
	require.NoError(t, err)
	return c
}

func (f *fixture) cemetery(t *testing.T, name string) *models.Cemetery {
	t.Helper()
	c, err := f.store.Cemeteries().Create(f.ctx, &models.Cemetery{Name: name, City: "Springfield"})
	require.NoError(t, err)
	return c
}

// memorial creates a memorial on a fresh plot in cemetery.
func (f *fixture) memorial(t *testing.T, customerID, cemeteryID int64) *models.Memorial {
	t.Helper()
	plot, err := f.store.Plots().Create(f.ctx, &models.Plot{
		CemeteryID: cemeteryID,
		Section:    "A",
		Row:        "1",
		PlotNumber: f.clock.Now().Format("150405"),
	})
	require.NoError(t, err)
	m, err := f.store.Memorials().Create(f.ctx, &models.Memorial{
		CustomerID: customerID,
		PlotID:     plot.ID,
		Material:   models.MaterialGranite,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) employee(t *testing.T, name string, role models.EmployeeRole, active bool) *models.Employee {
	t.Helper()
	e, err := f.store.Employees().Create(f.ctx, &models.Employee{FullName: name, Email: name + "@crew.test", Role: role, IsActive: active})
	require.NoError(t, err)
	return e
}

func (f *fixture) tech(t *testing.T, name string) *models.Employee {
	return f.employee(t, name, models.RoleTech, true)
}

func (f *fixture) service(t *testing.T, memorialID int64, status models.ServiceStatus) *models.Service {
	t.Helper()
	s, err := f.store.Services().Create(f.ctx, &models.Service{
		MemorialID:  memorialID,
		ServiceType: models.ServiceTypeCleaning,
		Status:      status,
	})
	require.NoError(t, err)
	return s
}

// draftService builds the customer, cemetery, memorial and a draft service.
func (f *fixture) draftService(t *testing.T) (*models.Service, *models.Memorial) {
	t.Helper()
	c := f.customer(t, "Jane Doe", "jane@example.com")
	ce := f.cemetery(t, "Oak Hill")
	m := f.memorial(t, c.ID, ce.ID)
	return f.service(t, m.ID, models.ServiceStatusDraft), m
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T { return &v }
