package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmployeeHandler holds dependencies for employee management.
type EmployeeHandler struct {
	service services.EmployeeService
	logger  *zap.Logger
}

func NewEmployeeHandler(service services.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, logger: logger.Named("employees")}
}

// GetEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        role  query     string  false  "Filter by role"  Enums(admin, manager, tech, other)
// @Success      200 {array}   dto.EmployeeResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Router       /manage/employees/ [get]
// @Security     BearerAuth
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var req dto.ListEmployeesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	employees, err := h.service.ListEmployees(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "retrieve employees")
		return
	}
	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, MapEmployeeToResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateEmployee godoc
// @Summary      Create an employee
// @Description  Creates the login and the employee record in one step.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        employee  body      dto.CreateEmployeeRequest  true  "Employee details"
// @Success      201 {object}  dto.EmployeeResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed or username taken"
// @Router       /manage/employees/create/ [post]
// @Security     BearerAuth
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	employee, err := h.service.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create employee")
		return
	}
	c.JSON(http.StatusCreated, MapEmployeeToResponse(employee))
}

// UpdateEmployeeRole godoc
// @Summary      Change role or active flag
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id      path      int                            true  "Employee ID"
// @Param        update  body      dto.UpdateEmployeeRoleRequest  true  "Role and/or is_active"
// @Success      200 {object}  dto.EmployeeResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Employee not found"
// @Router       /manage/employees/{id}/ [patch]
// @Security     BearerAuth
func (h *EmployeeHandler) UpdateEmployeeRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.ID = id

	employee, err := h.service.UpdateEmployeeRole(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "update employee")
		return
	}
	c.JSON(http.StatusOK, MapEmployeeToResponse(employee))
}
