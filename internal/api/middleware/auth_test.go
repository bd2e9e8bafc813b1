package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"headstone-api/internal/api/middleware"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*services.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) ParseToken(token string) (*services.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Claims), args.Error(1)
}

var _ services.AuthService = (*MockAuthService)(nil)

func setupGuardedRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	guarded := router.Group("/manage",
		middleware.JWTAuthMiddleware(auth, zap.NewNop()),
		middleware.RequireRole(models.RoleManager, models.RoleAdmin),
	)
	guarded.GET("/whoami", func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"employee_id": claims.EmployeeID})
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	mockAuth := new(MockAuthService)
	router := setupGuardedRouter(mockAuth)

	mockAuth.On("ParseToken", "manager-token").Return(&services.Claims{EmployeeID: 3, Role: models.RoleManager}, nil)
	mockAuth.On("ParseToken", "tech-token").Return(&services.Claims{EmployeeID: 4, Role: models.RoleTech}, nil)
	mockAuth.On("ParseToken", "old-token").Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidCredentials, jwt.ErrTokenExpired))
	mockAuth.On("ParseToken", "forged-token").Return(nil, fmt.Errorf("%w: %w", services.ErrInvalidCredentials, jwt.ErrTokenSignatureInvalid))

	cases := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"Manager", "Bearer manager-token", http.StatusOK, `"employee_id":3`},
		{"Lowercase Scheme", "bearer manager-token", http.StatusOK, `"employee_id":3`},
		{"Missing Header", "", http.StatusUnauthorized, "Authorization header required"},
		{"Wrong Scheme", "Basic abc", http.StatusUnauthorized, "Invalid Authorization header format"},
		{"Expired", "Bearer old-token", http.StatusUnauthorized, "Token has expired"},
		{"Bad Signature", "Bearer forged-token", http.StatusUnauthorized, "Invalid token"},
		{"Technician", "Bearer tech-token", http.StatusForbidden, "Insufficient role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request, _ := http.NewRequest(http.MethodGet, "/manage/whoami", nil)
			if tc.header != "" {
				request.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.wantBody)
		})
	}
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
