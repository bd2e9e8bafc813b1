package integration_tests

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/database"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/storage/postgres"
	"headstone-api/internal/transport/dto"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// allTables lists every table in dependency order for TRUNCATE.
var allTables = []string{
	"payments", "invoice_items", "invoices", "photos",
	"service_assignments", "service_status_history", "services",
	"memorials", "plots", "cemeteries", "customers", "employees", "users",
}

type env struct {
	ctx   context.Context
	pool  *pgxpool.Pool
	store *postgres.Store
	cache cache.Cache
	redis *redis.Client
	log   *zap.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	pool := getTestPool(t)
	c, rdb := getTestCache(t)
	cleanupTables(ctx, t, pool, allTables...)
	cleanupRedis(t, rdb)
	logger := zaptest.NewLogger(t)
	return &env{ctx: ctx, pool: pool, store: postgres.NewStore(pool, logger), cache: c, redis: rdb, log: logger}
}

func (e *env) scheduling() services.SchedulingService {
	return services.NewSchedulingService(
		e.store,
		services.NewPricingService(time.Now, time.UTC, e.log),
		services.NewValidator(),
		e.cache,
		nil,
		time.Now,
		services.SchedulingOptions{MaxTechniciansPerService: 1, Location: time.UTC},
		e.log,
	)
}

func (e *env) records() services.RecordService {
	return services.NewRecordService(e.store, services.NewValidator(), e.cache, e.log)
}

func (e *env) customers() services.CustomerService {
	return services.NewCustomerService(e.store, services.NewValidator(), e.cache, e.log)
}

func (e *env) employees() services.EmployeeService {
	return services.NewEmployeeService(e.store, services.NewValidator(), 4, e.log)
}

func (e *env) reports() services.ReportService {
	return services.NewReportService(e.store, e.cache, time.Minute, time.Now, time.UTC, e.log)
}

// createMemorial creates a customer, cemetery, plot and memorial.
func createMemorial(t *testing.T, e *env, customerName string) (*models.Customer, *models.Memorial) {
	t.Helper()
	customer, err := e.customers().CreateCustomer(e.ctx, &dto.CreateCustomerRequest{FullName: customerName, Email: "family@example.com"})
	require.NoError(t, err)
	cemetery, err := e.records().CreateCemetery(e.ctx, &dto.CreateCemeteryRequest{Name: "Oakwood", City: "Springfield"})
	require.NoError(t, err)
	plot, err := e.records().CreatePlot(e.ctx, &dto.CreatePlotRequest{CemeteryID: cemetery.ID, Section: "B", Row: "4", PlotNumber: customerName})
	require.NoError(t, err)
	memorial, err := e.records().CreateMemorial(e.ctx, &dto.CreateMemorialRequest{CustomerID: customer.ID, PlotID: plot.ID, Material: models.MaterialGranite})
	require.NoError(t, err)
	return customer, memorial
}

func createTechnician(t *testing.T, e *env, username string) *models.Employee {
	t.Helper()
	tech, err := e.employees().CreateEmployee(e.ctx, &dto.CreateEmployeeRequest{
		Username: username,
		Password: "correct-horse",
		FullName: "Tech " + username,
		Role:     models.RoleTech,
	})
	require.NoError(t, err)
	return tech
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// getTestPool connects to TEST_DATABASE_URL and applies the schema. Tests
// are skipped when the variable is unset.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	require.NoError(t, database.Migrate(ctx, pool, zaptest.NewLogger(t)))
	return pool
}

// getTestCache returns a Redis-backed cache when TEST_REDIS_URL is set and
// reachable, otherwise an in-process one.
func getTestCache(t *testing.T) (cache.Cache, *redis.Client) {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_URL")
	if addr == "" {
		return cache.NewMemoryCache(time.Minute), nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Logf("WARN: test Redis at %s unreachable: %v", addr, err)
		_ = rdb.Close()
		return cache.NewMemoryCache(time.Minute), nil
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisCache(rdb, "headstone-test:"), rdb
}

// cleanupTables truncates the given tables and resets their sequences.
func cleanupTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()
	if len(tables) == 0 {
		return
	}
	_, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to truncate %s", strings.Join(tables, ", "))
}

// cleanupRedis flushes the test Redis database.
func cleanupRedis(t *testing.T, client *redis.Client) {
	t.Helper()
	if client == nil {
		return
	}
	require.NoError(t, client.FlushDB(context.Background()).Err(), "Failed to flush test Redis database")
}
