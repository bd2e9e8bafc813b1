package services

import (
	"context"
	"fmt"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type employeeService struct {
	store      storage.Store
	validate   *validator.Validate
	bcryptCost int
	logger     *zap.Logger
}

// NewEmployeeService creates a new instance of EmployeeService. A zero
// bcryptCost uses bcrypt.DefaultCost.
func NewEmployeeService(store storage.Store, validate *validator.Validate, bcryptCost int, logger *zap.Logger) EmployeeService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &employeeService{store: store, validate: validate, bcryptCost: bcryptCost, logger: logger.Named("employees")}
}

func (s *employeeService) ListEmployees(ctx context.Context, req *dto.ListEmployeesRequest) ([]models.Employee, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	employees, err := s.store.Employees().List(ctx, req)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "listing employees")
	}
	return employees, nil
}

// CreateEmployee provisions the login and the employee record together.
// A taken username is rejected before anything is written.
func (s *employeeService) CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*models.Employee, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleTech
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var employee *models.Employee
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		exists, err := tx.Users().ExistsByUsername(ctx, req.Username)
		if err != nil {
			return MapRepoError(s.logger, err, "checking username")
		}
		if exists {
			return fieldError("username", "A user with that username already exists.")
		}
		user, err := tx.Users().Create(ctx, &models.User{
			Username:     req.Username,
			PasswordHash: string(hash),
			IsActive:     isActive,
		})
		if err != nil {
			return MapRepoError(s.logger, err, "creating user")
		}
		employee, err = tx.Employees().Create(ctx, &models.Employee{
			UserID:   &user.ID,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     role,
			IsActive: isActive,
		})
		if err != nil {
			return MapRepoError(s.logger, err, "creating employee")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Employee created", zap.Int64("employee_id", employee.ID), zap.String("role", string(role)))
	return employee, nil
}

func (s *employeeService) UpdateEmployeeRole(ctx context.Context, req *dto.UpdateEmployeeRoleRequest) (*models.Employee, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	employee, err := s.store.Employees().GetByID(ctx, req.ID)
	if err != nil {
		return nil, MapRepoError(s.logger, err, fmt.Sprintf("finding employee %d", req.ID))
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	updated, err := s.store.Employees().Update(ctx, employee)
	if err != nil {
		return nil, MapRepoError(s.logger, err, "updating employee")
	}
	s.logger.Info("Employee updated", zap.Int64("employee_id", updated.ID), zap.String("role", string(updated.Role)), zap.Bool("is_active", updated.IsActive))
	return updated, nil
}
