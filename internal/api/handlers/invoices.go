package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceHandler holds dependencies for invoice operations.
type InvoiceHandler struct {
	service services.BillingService
	logger  *zap.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(service services.BillingService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, logger: logger.Named("invoices")}
}

// GetInvoice godoc
// @Summary      Get an invoice
// @Description  Returns an invoice with its line items, payments and the amount paid so far.
// @Tags         invoices
// @Produce      json
// @Param        id  path      int  true  "Invoice ID"
// @Success      200 {object}  dto.InvoiceResponse
// @Failure      400 {object}  map[string]string "Invalid ID format"
// @Failure      404 {object}  map[string]string "Invoice not found"
// @Router       /manage/invoices/{id}/ [get]
// @Security     BearerAuth
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, MapInvoiceDetailToResponse(detail))
}

// AddInvoiceItem godoc
// @Summary      Add an invoice line
// @Description  Appends a line item and re-totals the invoice from its lines. Paid and void invoices are closed.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true  "Invoice ID"
// @Param        item  body      dto.AddInvoiceItemRequest  true  "Line item"
// @Success      201 {object}  dto.InvoiceResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Invoice not found"
// @Failure      409 {object}  map[string]string "Invoice is paid or void"
// @Router       /manage/invoices/{id}/items/ [post]
// @Security     BearerAuth
func (h *InvoiceHandler) AddInvoiceItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.InvoiceID = id

	detail, err := h.service.AddInvoiceItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "add invoice item")
		return
	}
	c.JSON(http.StatusCreated, MapInvoiceDetailToResponse(detail))
}

// RecordPayment godoc
// @Summary      Record a manual payment
// @Description  Stores a cash, check or other manual payment. The invoice is marked paid once payments cover its total.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Invoice ID"
// @Param        payment  body      dto.RecordPaymentRequest  true  "Payment"
// @Success      201 {object}  dto.InvoiceResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Invoice not found"
// @Failure      409 {object}  map[string]string "Invoice is void"
// @Router       /manage/invoices/{id}/payments/ [post]
// @Security     BearerAuth
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.InvoiceID = id

	detail, err := h.service.RecordPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "record payment")
		return
	}
	c.JSON(http.StatusCreated, MapInvoiceDetailToResponse(detail))
}
