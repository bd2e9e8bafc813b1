package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"headstone-api/config"
	"headstone-api/internal/api/routes"
	"headstone-api/internal/app"
	"headstone-api/internal/cache"
	"headstone-api/internal/mailer"
	"headstone-api/internal/metrics"
	"headstone-api/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, authEnabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWT:        config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		Auth:       config.AuthConfig{Enabled: authEnabled},
		Scheduling: config.SchedulingConfig{MaxTechniciansPerService: 1, Timezone: "UTC"},
		Cache:      config.CacheConfig{DashboardTTL: time.Minute},
	}
	logger := zap.NewNop()
	application, err := app.New(cfg, logger, app.Deps{
		Store:   memory.NewStore(nil),
		Cache:   cache.NewMemoryCache(time.Minute),
		Sender:  mailer.NewLogSender("office@headstone.test", logger),
		Metrics: metrics.New(),
	})
	require.NoError(t, err)

	router := gin.New()
	routes.RegisterRoutes(router, application)
	return router
}

func TestRegisterRoutes(t *testing.T) {
	router := setupRouter(t, false)

	expectedRoutes := []struct {
		Method string
		Path   string
	}{
		{http.MethodPost, "/api/auth/login/"},
		{http.MethodGet, "/api/dashboard/summary/"},
		{http.MethodGet, "/api/memorials/"},
		{http.MethodGet, "/api/customers/"},
		{http.MethodGet, "/api/cemeteries/"},
		{http.MethodGet, "/api/technicians/"},
		{http.MethodGet, "/api/scheduling/services/"},
		{http.MethodPost, "/api/scheduling/services/create/"},
		{http.MethodPost, "/api/manager/services/:id/assign/"},
		{http.MethodPatch, "/api/manager/services/:id/status/"},
		{http.MethodGet, "/api/manager/services/:id/history/"},
		{http.MethodPost, "/api/emails/send/"},
		{http.MethodGet, "/api/manage/customers/"},
		{http.MethodPost, "/api/manage/customers/"},
		{http.MethodPatch, "/api/manage/customers/:id/"},
		{http.MethodDelete, "/api/manage/customers/:id/"},
		{http.MethodGet, "/api/manage/employees/"},
		{http.MethodPost, "/api/manage/employees/create/"},
		{http.MethodPatch, "/api/manage/employees/:id/"},
		{http.MethodPost, "/api/manage/cemeteries/"},
		{http.MethodPost, "/api/manage/cemeteries/:id/plots/"},
		{http.MethodDelete, "/api/manage/plots/:id/"},
		{http.MethodPost, "/api/manage/memorials/"},
		{http.MethodDelete, "/api/manage/memorials/:id/"},
		{http.MethodGet, "/api/memorials/:id/photos/"},
		{http.MethodPost, "/api/memorials/:id/photos/"},
		{http.MethodGet, "/api/manage/invoices/:id/"},
		{http.MethodPost, "/api/manage/invoices/:id/items/"},
		{http.MethodPost, "/api/manage/invoices/:id/payments/"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/metrics"},
		{http.MethodGet, "/swagger/*any"},
	}

	registeredRoutes := router.Routes()
	registeredMap := make(map[string]bool)
	for _, routeInfo := range registeredRoutes {
		registeredMap[routeInfo.Method+" "+routeInfo.Path] = true
	}

	assert.Len(t, registeredRoutes, len(expectedRoutes), "Number of registered routes should match expected")
	for _, expected := range expectedRoutes {
		assert.True(t, registeredMap[expected.Method+" "+expected.Path], "Expected route %s %s to be registered", expected.Method, expected.Path)
	}
}

func TestRegisterRoutes_AuthGuard(t *testing.T) {
	cases := []struct {
		name        string
		authEnabled bool
		method      string
		path        string
		wantCode    int
	}{
		{"Open Mode Management", false, http.MethodGet, "/api/manage/customers/", http.StatusOK},
		{"Guarded Management", true, http.MethodGet, "/api/manage/customers/", http.StatusUnauthorized},
		{"Guarded Manager", true, http.MethodGet, "/api/manager/services/1/history/", http.StatusUnauthorized},
		{"Guarded Email", true, http.MethodPost, "/api/emails/send/", http.StatusUnauthorized},
		{"Public Board", true, http.MethodGet, "/api/scheduling/services/", http.StatusOK},
		{"Public Dashboard", true, http.MethodGet, "/api/dashboard/summary/", http.StatusOK},
		{"Public Photos", true, http.MethodGet, "/api/memorials/1/photos/", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupRouter(t, tc.authEnabled)

			recorder := httptest.NewRecorder()
			request, _ := http.NewRequest(tc.method, tc.path, nil)
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
}
