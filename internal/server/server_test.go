package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"headstone-api/config"
	"headstone-api/internal/app"
	"headstone-api/internal/cache"
	"headstone-api/internal/mailer"
	"headstone-api/internal/metrics"
	"headstone-api/internal/server"
	"headstone-api/internal/storage/memory"
	"headstone-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Origin", "http://localhost:5173")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
	recorder := httptest.NewRecorder()
	c.handler.ServeHTTP(recorder, request)
	if out != nil {
		require.NoError(c.t, json.Unmarshal(recorder.Body.Bytes(), out), recorder.Body.String())
	}
	return recorder.Code
}

func newTestServer(t *testing.T) (*apiClient, *app.Application) {
	t.Helper()
	cfg := &config.Config{
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: "test"},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		JWT:        config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		Auth:       config.AuthConfig{Enabled: true},
		Scheduling: config.SchedulingConfig{MaxTechniciansPerService: 1, Timezone: "UTC"},
		Cache:      config.CacheConfig{DashboardTTL: time.Minute},
		Log:        config.LogConfig{Level: "info", SlowRequestMS: 500},
	}
	logger := zap.NewNop()
	application, err := app.New(cfg, logger, app.Deps{
		Store:        memory.NewStore(func() time.Time { return testNow }),
		Cache:        cache.NewMemoryCache(time.Minute),
		Sender:       mailer.NewLogSender("office@headstone.test", logger),
		Metrics:      metrics.New(),
		Now:          func() time.Time { return testNow },
		HealthChecks: map[string]func(context.Context) error{"store": func(context.Context) error { return nil }},
		BcryptCost:   bcrypt.MinCost,
	})
	require.NoError(t, err)

	_, err = application.Services.Employees.CreateEmployee(context.Background(), &dto.CreateEmployeeRequest{
		Username: "manager",
		Password: "correct horse",
		FullName: "Mia Manager",
		Role:     "manager",
	})
	require.NoError(t, err)

	return &apiClient{t: t, handler: server.NewServer(application).Handler()}, application
}

func TestServer_SchedulingFlow(t *testing.T) {
	client, _ := newTestServer(t)

	// Management routes are guarded.
	assert.Equal(t, http.StatusUnauthorized, client.do(http.MethodGet, "/api/manage/customers/", nil, nil))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, client.do(http.MethodPost, "/api/auth/login/",
		map[string]string{"username": "manager", "password": "correct horse"}, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "2026-03-12T11:00:00Z", login.ExpiresAt)
	client.token = login.Token

	var id struct {
		ID int64 `json:"id"`
	}
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/manage/customers/",
		map[string]string{"full_name": "Jane Doe", "email": "jane@example.com"}, &id))
	customerID := id.ID

	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/manage/cemeteries/",
		map[string]string{"name": "Oak Hill", "city": "Albany"}, &id))
	cemeteryID := id.ID

	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/manage/cemeteries/"+itoa(cemeteryID)+"/plots/",
		map[string]string{"section": "A", "row": "3", "plot_number": "12"}, &id))
	plotID := id.ID

	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/manage/memorials/",
		map[string]any{"customer_id": customerID, "plot_id": plotID, "material": "granite"}, &id))
	memorialID := id.ID

	var tech dto.EmployeeResponse
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/manage/employees/create/",
		map[string]string{"username": "tom", "password": "hunter22", "full_name": "Tom Tech", "role": "tech"}, &tech))

	var created dto.SchedulingServiceResponse
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/scheduling/services/create/",
		map[string]any{"memorial_id": memorialID, "service_type": "cleaning", "initial_price": 150}, &created))
	assert.Equal(t, "draft", string(created.Status))
	require.NotNil(t, created.Price)
	assert.Equal(t, 150.0, *created.Price)

	var envelope dto.ServiceEnvelope
	require.Equal(t, http.StatusOK, client.do(http.MethodPost, "/api/manager/services/"+itoa(created.ID)+"/assign/",
		map[string]any{
			"technician_id":     tech.ID,
			"scheduled_start":   "2026-03-12T14:30:00Z",
			"estimated_minutes": 90,
			"price":             "320.00",
			"gps_lat":           "42.652600",
			"gps_lng":           "-73.756200",
		}, &envelope))
	assert.True(t, envelope.OK)
	assert.Equal(t, "scheduled", string(envelope.Service.Status))
	assert.Equal(t, "Tom Tech", *envelope.Service.TechnicianName)
	assert.Equal(t, 320.0, *envelope.Service.Price)
	assert.Equal(t, "42.652600", *envelope.Service.GPSLat)

	var history []dto.StatusHistoryResponse
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/manager/services/"+itoa(created.ID)+"/history/", nil, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "scheduled", string(history[0].NewStatus))
	require.NotNil(t, history[0].ChangedByID)
	assert.Equal(t, login.Employee.ID, *history[0].ChangedByID)

	var dashboard dto.DashboardResponse
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/dashboard/summary/", nil, &dashboard))
	assert.Equal(t, 320.0, dashboard.Summary.TotalRevenue)
	assert.Equal(t, 1, dashboard.Summary.ActiveServices)
	assert.Equal(t, 1, dashboard.Summary.ServicesToday)
	assert.Equal(t, 1, dashboard.Summary.CrewsActive)
	require.Len(t, dashboard.UpcomingServices, 1)
	assert.Equal(t, "Scheduled", dashboard.UpcomingServices[0].StatusDisplay)

	// Assigning a completed service reopens it as scheduled.
	require.Equal(t, http.StatusOK, client.do(http.MethodPatch, "/api/manager/services/"+itoa(created.ID)+"/status/",
		map[string]string{"status": "in_progress"}, nil))
	require.Equal(t, http.StatusOK, client.do(http.MethodPatch, "/api/manager/services/"+itoa(created.ID)+"/status/",
		map[string]string{"status": "completed"}, nil))
	require.Equal(t, http.StatusOK, client.do(http.MethodPost, "/api/manager/services/"+itoa(created.ID)+"/assign/",
		map[string]any{"technician_id": tech.ID, "scheduled_start": "2026-03-13T09:00:00Z", "estimated_minutes": 60}, nil))
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/api/manager/services/"+itoa(created.ID)+"/history/", nil, &history))
	require.Len(t, history, 5)
	assert.Equal(t, "completed", string(history[0].OldStatus))
	assert.Equal(t, "scheduled", string(history[0].NewStatus))

	var emails dto.SendEmailsResponse
	require.Equal(t, http.StatusOK, client.do(http.MethodPost, "/api/emails/send/",
		map[string]any{"customer_ids": []int64{customerID}, "subject": "Done", "body": "Hi {{first_name}}"}, &emails))
	assert.Equal(t, 1, emails.SentCount)
	assert.Equal(t, "office@headstone.test", emails.FromEmail)
}

func TestServer_HealthMetricsAndCORS(t *testing.T) {
	client, _ := newTestServer(t)

	var health map[string]any
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])

	request := httptest.NewRequest(http.MethodOptions, "/api/dashboard/summary/", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	request.Header.Set("Access-Control-Request-Method", http.MethodGet)
	recorder := httptest.NewRecorder()
	client.handler.ServeHTTP(recorder, request)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder = httptest.NewRecorder()
	client.handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `headstone_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
