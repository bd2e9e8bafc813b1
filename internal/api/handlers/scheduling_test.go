package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"headstone-api/internal/api/handlers"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSchedulingRouter() (*gin.Engine, *MockSchedulingService) {
	router := newTestRouter()
	mockService := new(MockSchedulingService)
	handler := handlers.NewSchedulingHandler(mockService, zap.NewNop())
	router.GET("/scheduling/services/", handler.ListServices)
	router.POST("/scheduling/services/create/", handler.CreateService)
	router.POST("/manager/services/:id/assign/", handler.AssignTechnician)
	router.PATCH("/manager/services/:id/status/", handler.UpdateStatus)
	router.GET("/manager/services/:id/history/", handler.ListHistory)
	return router, mockService
}

func scheduledRow() *models.SchedulingServiceRow {
	start := time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)
	minutes := 90
	techID := int64(7)
	techName := "Tom Tech"
	price := decimal.NewFromInt(320)
	lat := decimal.RequireFromString("40.7128")
	lng := decimal.RequireFromString("-74.006")
	return &models.SchedulingServiceRow{
		ID:               12,
		ServiceType:      models.ServiceTypeCleaning,
		Status:           models.ServiceStatusScheduled,
		ScheduledStart:   &start,
		EstimatedMinutes: &minutes,
		MemorialName:     "Jane Doe",
		CemeteryName:     "Oak Hill",
		TechnicianID:     &techID,
		TechnicianName:   &techName,
		Price:            &price,
		GPSLat:           &lat,
		GPSLng:           &lng,
	}
}

func TestSchedulingHandler_AssignTechnician(t *testing.T) {
	router, mockService := setupSchedulingRouter()
	body := `{"technician_id": 7, "scheduled_start": "2026-03-12T14:30:00Z", "estimated_minutes": 90, "price": 320}`

	t.Run("Success", func(t *testing.T) {
		mockService.On("AssignTechnician", mock.Anything, mock.MatchedBy(func(req *dto.AssignTechnicianRequest) bool {
			return req.ServiceID == 12 && req.TechnicianID == 7 && req.EstimatedMinutes == 90 &&
				req.Price != nil && req.Price.Equal(decimal.NewFromInt(320)) && req.ChangedByID == nil
		})).Return(scheduledRow(), nil).Once()

		recorder := perform(router, http.MethodPost, "/manager/services/12/assign/", body)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["ok"])
		service := resp["service"].(map[string]any)
		assert.Equal(t, float64(12), service["id"])
		assert.Equal(t, "scheduled", service["status"])
		assert.Equal(t, "Tom Tech", service["technician_name"])
		assert.Equal(t, float64(320), service["price"])
		assert.Equal(t, "40.712800", service["gps_lat"])
		assert.Equal(t, "-74.006000", service["gps_lng"])
		mockService.AssertExpectations(t)
	})

	errorCases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"Validation", &services.ValidationError{Fields: map[string]string{"estimated_minutes": "Ensure this value is less than or equal to 1440."}}, http.StatusBadRequest, `"details":{"estimated_minutes"`},
		{"Not Found", fmt.Errorf("technician: %w", services.ErrNotFound), http.StatusNotFound, "resource not found"},
		{"Closed Service", services.ErrInvalidTransition, http.StatusConflict, "invalid state transition"},
		{"Internal", errors.New("connection reset"), http.StatusInternalServerError, "Failed to assign technician"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService.On("AssignTechnician", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			recorder := perform(router, http.MethodPost, "/manager/services/12/assign/", body)

			assert.Equal(t, tc.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.wantBody)
			mockService.AssertExpectations(t)
		})
	}

	t.Run("Invalid ID", func(t *testing.T) {
		recorder := perform(router, http.MethodPost, "/manager/services/abc/assign/", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid id format")
	})

	t.Run("Malformed Body", func(t *testing.T) {
		recorder := perform(router, http.MethodPost, "/manager/services/12/assign/", `{"technician_id": "seven"`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid request body")
	})
}

func TestSchedulingHandler_CreateService(t *testing.T) {
	router, mockService := setupSchedulingRouter()
	row := scheduledRow()
	row.Status = models.ServiceStatusDraft
	row.ScheduledStart, row.TechnicianID, row.TechnicianName, row.GPSLat, row.GPSLng = nil, nil, nil, nil, nil
	mockService.On("CreateService", mock.Anything, mock.MatchedBy(func(req *dto.CreateServiceRequest) bool {
		return req.MemorialID == 3 && req.ServiceType == models.ServiceTypeRepair
	})).Return(row, nil).Once()

	recorder := perform(router, http.MethodPost, "/scheduling/services/create/", `{"memorial_id": 3, "service_type": "repair"}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	var resp dto.SchedulingServiceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, models.ServiceStatusDraft, resp.Status)
	assert.Nil(t, resp.GPSLat)
	assert.Nil(t, resp.TechnicianID)
	mockService.AssertExpectations(t)
}

func TestSchedulingHandler_UpdateStatus(t *testing.T) {
	router, mockService := setupSchedulingRouter()

	mockService.On("UpdateServiceStatus", mock.Anything, mock.MatchedBy(func(req *dto.UpdateServiceStatusRequest) bool {
		return req.ServiceID == 12 && req.Status == models.ServiceStatusCompleted
	})).Return(nil, services.ErrInvalidTransition).Once()

	recorder := perform(router, http.MethodPatch, "/manager/services/12/status/", `{"status": "completed"}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	mockService.AssertExpectations(t)
}

func TestSchedulingHandler_ListServices(t *testing.T) {
	router, mockService := setupSchedulingRouter()

	t.Run("Success - Empty List", func(t *testing.T) {
		mockService.On("ListBoard", mock.Anything).Return([]models.SchedulingServiceRow{}, nil).Once()

		recorder := perform(router, http.MethodGet, "/scheduling/services/", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `[]`, recorder.Body.String())
	})

	t.Run("Success", func(t *testing.T) {
		mockService.On("ListBoard", mock.Anything).Return([]models.SchedulingServiceRow{*scheduledRow()}, nil).Once()

		recorder := perform(router, http.MethodGet, "/scheduling/services/", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp []dto.SchedulingServiceResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Oak Hill", resp[0].CemeteryName)
		require.NotNil(t, resp[0].Price)
		assert.Equal(t, 320.0, *resp[0].Price)
	})
	mockService.AssertExpectations(t)
}

func TestSchedulingHandler_ListHistory(t *testing.T) {
	router, mockService := setupSchedulingRouter()
	changedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mockService.On("ListServiceHistory", mock.Anything, int64(12)).Return([]models.ServiceStatusHistory{
		{ID: 2, ServiceID: 12, OldStatus: models.ServiceStatusDraft, NewStatus: models.ServiceStatusScheduled, ChangedAt: changedAt},
	}, nil).Once()

	recorder := perform(router, http.MethodGet, "/manager/services/12/history/", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[{"id":2,"old_status":"draft","new_status":"scheduled","changed_by":null,"changed_at":"2026-03-10T09:00:00Z"}]`, recorder.Body.String())
	mockService.AssertExpectations(t)
}
