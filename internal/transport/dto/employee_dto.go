package dto

import "headstone-api/internal/models"

// ListEmployeesRequest filters the employee management list.
type ListEmployeesRequest struct {
	Role string `form:"role" validate:"omitempty,oneof=admin manager tech other"`
}

// CreateEmployeeRequest provisions a login and the employee record behind it.
type CreateEmployeeRequest struct {
	Username string              `json:"username" validate:"required,min=3,max=150"`
	Password string              `json:"password" validate:"required,min=8,max=72"`
	FullName string              `json:"full_name" validate:"required,max=200"`
	Email    string              `json:"email" validate:"omitempty,email,max=254"`
	Phone    string              `json:"phone" validate:"max=50"`
	Role     models.EmployeeRole `json:"role" validate:"omitempty,oneof=admin manager tech other"`
	IsActive *bool               `json:"is_active,omitempty"`
}

// UpdateEmployeeRoleRequest changes role and/or active flag.
type UpdateEmployeeRoleRequest struct {
	ID       int64                `json:"-" validate:"required,gt=0"`
	Role     *models.EmployeeRole `json:"role,omitempty" validate:"omitempty,oneof=admin manager tech other"`
	IsActive *bool                `json:"is_active,omitempty"`
}

// Validate requires at least one of the updatable fields.
func (r *UpdateEmployeeRoleRequest) Validate() map[string]string {
	if r.Role == nil && r.IsActive == nil {
		return map[string]string{"non_field_errors": "Provide role and/or is_active"}
	}
	return nil
}

// EmployeeResponse is the management view of an employee.
type EmployeeResponse struct {
	ID       int64               `json:"id"`
	Username string              `json:"username"`
	FullName string              `json:"full_name"`
	Email    string              `json:"email"`
	Phone    string              `json:"phone"`
	Role     models.EmployeeRole `json:"role"`
	IsActive bool                `json:"is_active"`
}

// TechnicianResponse is one row of GET /technicians/.
type TechnicianResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}
