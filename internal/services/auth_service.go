package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload. Subject is the user id.
type Claims struct {
	EmployeeID int64               `json:"employee_id"`
	Role       models.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult carries a signed token and the employee behind it.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Employee  *models.Employee
}

type authService struct {
	store         storage.Store
	validate      *validator.Validate
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           Clock
	logger        *zap.Logger
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(store storage.Store, validate *validator.Validate, jwtSecret string, jwtExpiration time.Duration, now Clock, logger *zap.Logger) AuthService {
	return &authService{
		store:         store,
		validate:      validate,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		now:           now,
		logger:        logger.Named("auth"),
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info("Login failed: unknown user", zap.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, MapRepoError(s.logger, err, "finding user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("Login failed: invalid password", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Info("Login failed: inactive user", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	employee, err := s.store.Employees().GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, MapRepoError(s.logger, err, "finding employee for user")
	}
	if !employee.IsActive {
		return nil, ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.jwtExpiration)
	claims := &Claims{
		EmployeeID: employee.ID,
		Role:       employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("username", req.Username), zap.Error(err))
		return nil, fmt.Errorf("failed to generate login token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Employee: employee}, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func (s *authService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil && !parsed.Valid {
		err = jwt.ErrTokenUnverifiable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return claims, nil
}
