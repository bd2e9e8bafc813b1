package handlers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"headstone-api/internal/api/handlers"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupCustomerRouter() (*gin.Engine, *MockCustomerService) {
	router := newTestRouter()
	mockService := new(MockCustomerService)
	handler := handlers.NewCustomerHandler(mockService, zap.NewNop())
	router.GET("/manage/customers/", handler.GetCustomers)
	router.POST("/manage/customers/", handler.CreateCustomer)
	router.PATCH("/manage/customers/:id/", handler.UpdateCustomer)
	router.DELETE("/manage/customers/:id/", handler.DeleteCustomer)
	return router, mockService
}

func TestCustomerHandler_GetCustomers(t *testing.T) {
	router, mockService := setupCustomerRouter()
	mockService.On("ListCustomers", mock.Anything, &dto.ListCustomersRequest{Search: "doe"}).
		Return([]models.Customer{{ID: 1, FullName: "Jane Doe", Email: "jane@example.com"}}, nil).Once()

	recorder := perform(router, http.MethodGet, "/manage/customers/?search=doe", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp []models.Customer
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Jane Doe", resp[0].FullName)
	mockService.AssertExpectations(t)
}

func TestCustomerHandler_CreateCustomer(t *testing.T) {
	router, mockService := setupCustomerRouter()

	t.Run("Success", func(t *testing.T) {
		mockService.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(req *dto.CreateCustomerRequest) bool {
			return req.FullName == "Jane Doe" && req.City == "Albany"
		})).Return(&models.Customer{ID: 5, FullName: "Jane Doe", City: "Albany"}, nil).Once()

		recorder := perform(router, http.MethodPost, "/manage/customers/", `{"full_name": "Jane Doe", "city": "Albany"}`)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"id":5`)
	})

	t.Run("Validation Error", func(t *testing.T) {
		err := &services.ValidationError{Fields: map[string]string{"full_name": "This field is required."}}
		mockService.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, err).Once()

		recorder := perform(router, http.MethodPost, "/manage/customers/", `{}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"error":"Validation failed","details":{"full_name":"This field is required."}}`, recorder.Body.String())
	})
	mockService.AssertExpectations(t)
}

func TestCustomerHandler_UpdateCustomer(t *testing.T) {
	router, mockService := setupCustomerRouter()
	mockService.On("UpdateCustomer", mock.Anything, mock.MatchedBy(func(req *dto.UpdateCustomerRequest) bool {
		return req.ID == 5 && req.Phone != nil && *req.Phone == "555-0100" && req.FullName == nil
	})).Return(&models.Customer{ID: 5, FullName: "Jane Doe", Phone: "555-0100"}, nil).Once()

	recorder := perform(router, http.MethodPatch, "/manage/customers/5/", `{"phone": "555-0100"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"phone":"555-0100"`)
	mockService.AssertExpectations(t)
}

func TestCustomerHandler_DeleteCustomer(t *testing.T) {
	router, mockService := setupCustomerRouter()

	cases := []struct {
		name     string
		id       int64
		err      error
		wantCode int
	}{
		{"Success", 5, nil, http.StatusNoContent},
		{"Not Found", 6, services.ErrNotFound, http.StatusNotFound},
		{"Still Referenced", 7, services.ErrConflict, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService.On("DeleteCustomer", mock.Anything, tc.id).Return(tc.err).Once()

			recorder := perform(router, http.MethodDelete, "/manage/customers/"+strconv.FormatInt(tc.id, 10)+"/", "")

			assert.Equal(t, tc.wantCode, recorder.Code)
		})
	}
	mockService.AssertExpectations(t)

	t.Run("Invalid ID", func(t *testing.T) {
		recorder := perform(router, http.MethodDelete, "/manage/customers/0/", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
