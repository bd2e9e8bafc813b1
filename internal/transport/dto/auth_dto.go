package dto

// LoginRequest defines the structure for POST /auth/login/.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token and the authenticated employee.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt string           `json:"expires_at"`
	Employee  EmployeeResponse `json:"employee"`
}
