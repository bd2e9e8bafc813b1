package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"headstone-api/internal/api/handlers"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name     string
		checks   map[string]handlers.HealthCheck
		wantCode int
		wantBody string
	}{
		{"Liveness Only", nil, http.StatusOK, `{"status":"ok"}`},
		{"All Healthy", map[string]handlers.HealthCheck{"database": ok, "redis": ok}, http.StatusOK,
			`{"status":"ok","checks":{"database":"ok","redis":"ok"}}`},
		{"Redis Down", map[string]handlers.HealthCheck{"database": ok, "redis": down}, http.StatusServiceUnavailable,
			`{"status":"degraded","checks":{"database":"ok","redis":"connection refused"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter()
			router.GET("/health", handlers.NewHealthHandler(tc.checks, zap.NewNop()).Health)

			recorder := perform(router, http.MethodGet, "/health", "")

			assert.Equal(t, tc.wantCode, recorder.Code)
			assert.JSONEq(t, tc.wantBody, recorder.Body.String())
		})
	}
}
