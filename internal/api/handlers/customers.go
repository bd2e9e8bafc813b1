package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerHandler holds dependencies for customer management.
type CustomerHandler struct {
	service services.CustomerService
	logger  *zap.Logger
}

func NewCustomerHandler(service services.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, logger: logger.Named("customers")}
}

// GetCustomers godoc
// @Summary      List customers
// @Description  Customers ordered by name. The optional search term matches name or email, case-insensitively.
// @Tags         customers
// @Produce      json
// @Param        search  query     string  false  "Name or email fragment"
// @Success      200 {array}   models.Customer
// @Router       /manage/customers/ [get]
// @Security     BearerAuth
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var req dto.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	customers, err := h.service.ListCustomers(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "retrieve customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// CreateCustomer godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      dto.CreateCustomerRequest  true  "Customer details"
// @Success      201 {object}  models.Customer
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Router       /manage/customers/ [post]
// @Security     BearerAuth
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	customer, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer godoc
// @Summary      Update a customer
// @Description  Partial update; omitted fields keep their value.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      int                        true  "Customer ID"
// @Param        customer  body      dto.UpdateCustomerRequest  true  "Fields to change"
// @Success      200 {object}  models.Customer
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Customer not found"
// @Router       /manage/customers/{id}/ [patch]
// @Security     BearerAuth
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.ID = id

	customer, err := h.service.UpdateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer godoc
// @Summary      Delete a customer
// @Description  Customers that still own memorials or invoices cannot be deleted.
// @Tags         customers
// @Param        id  path  int  true  "Customer ID"
// @Success      204 "No Content"
// @Failure      404 {object}  map[string]string "Customer not found"
// @Failure      409 {object}  map[string]string "Customer is still referenced"
// @Router       /manage/customers/{id}/ [delete]
// @Security     BearerAuth
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}
