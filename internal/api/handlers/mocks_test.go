package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockSchedulingService is a mock implementation of services.SchedulingService
type MockSchedulingService struct {
	mock.Mock
}

func (m *MockSchedulingService) CreateService(ctx context.Context, req *dto.CreateServiceRequest) (*models.SchedulingServiceRow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SchedulingServiceRow), args.Error(1)
}

func (m *MockSchedulingService) AssignTechnician(ctx context.Context, req *dto.AssignTechnicianRequest) (*models.SchedulingServiceRow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SchedulingServiceRow), args.Error(1)
}

func (m *MockSchedulingService) UpdateServiceStatus(ctx context.Context, req *dto.UpdateServiceStatusRequest) (*models.SchedulingServiceRow, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SchedulingServiceRow), args.Error(1)
}

func (m *MockSchedulingService) ListServiceHistory(ctx context.Context, serviceID int64) ([]models.ServiceStatusHistory, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceStatusHistory), args.Error(1)
}

func (m *MockSchedulingService) ListBoard(ctx context.Context) ([]models.SchedulingServiceRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SchedulingServiceRow), args.Error(1)
}

var _ services.SchedulingService = (*MockSchedulingService)(nil)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendCustomerEmails(ctx context.Context, req *dto.SendEmailsRequest) (*dto.SendEmailsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SendEmailsResponse), args.Error(1)
}

var _ services.NotificationService = (*MockNotificationService)(nil)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, req *dto.ListCustomersRequest) ([]models.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*models.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ services.CustomerService = (*MockCustomerService)(nil)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// perform sends body (if any) as JSON and returns the recorder.
func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	var request *http.Request
	if body == "" {
		request, _ = http.NewRequest(method, path, nil)
	} else {
		request, _ = http.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(recorder, request)
	return recorder
}
