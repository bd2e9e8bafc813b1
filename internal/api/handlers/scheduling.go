package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler serves the scheduling board and the manager workflow.
type SchedulingHandler struct {
	service services.SchedulingService
	logger  *zap.Logger
}

// NewSchedulingHandler creates a new SchedulingHandler.
func NewSchedulingHandler(service services.SchedulingService, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{service: service, logger: logger.Named("scheduling")}
}

// ListServices godoc
// @Summary      Scheduling board
// @Description  Draft, scheduled and in-progress services ordered by scheduled start (unscheduled last), then newest first.
// @Tags         scheduling
// @Produce      json
// @Success      200 {array}   dto.SchedulingServiceResponse
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /scheduling/services/ [get]
func (h *SchedulingHandler) ListServices(c *gin.Context) {
	rows, err := h.service.ListBoard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "retrieve scheduling board")
		return
	}
	resp := make([]dto.SchedulingServiceResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, MapSchedulingRowToResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateService godoc
// @Summary      Create a service
// @Description  Creates a draft service for a memorial, optionally with an initial price.
// @Tags         scheduling
// @Accept       json
// @Produce      json
// @Param        service  body      dto.CreateServiceRequest  true  "Service details"
// @Success      201 {object}  dto.SchedulingServiceResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Memorial not found"
// @Router       /scheduling/services/create/ [post]
func (h *SchedulingHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.ChangedByID = changedBy(c)

	row, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create service")
		return
	}
	c.JSON(http.StatusCreated, MapSchedulingRowToResponse(row))
}

// AssignTechnician godoc
// @Summary      Assign a technician
// @Description  Schedules the service, assigns the technician, and optionally sets the price and the plot GPS, all atomically.
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        id          path      int                          true  "Service ID"
// @Param        assignment  body      dto.AssignTechnicianRequest  true  "Assignment"
// @Success      200 {object}  dto.ServiceEnvelope
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Service or technician not found"
// @Failure      409 {object}  map[string]string "Service cannot be scheduled from its current status"
// @Router       /manager/services/{id}/assign/ [post]
// @Security     BearerAuth
func (h *SchedulingHandler) AssignTechnician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.ServiceID = id
	req.ChangedByID = changedBy(c)

	row, err := h.service.AssignTechnician(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "assign technician")
		return
	}
	c.JSON(http.StatusOK, dto.ServiceEnvelope{OK: true, Service: MapSchedulingRowToResponse(row)})
}

// UpdateStatus godoc
// @Summary      Change service status
// @Description  Moves a service along draft -> scheduled -> in_progress -> completed, or to canceled. Completion stamps today's date.
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        id      path      int                             true  "Service ID"
// @Param        status  body      dto.UpdateServiceStatusRequest  true  "New status"
// @Success      200 {object}  dto.ServiceEnvelope
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      404 {object}  map[string]string "Service not found"
// @Failure      409 {object}  map[string]string "Transition not allowed"
// @Router       /manager/services/{id}/status/ [patch]
// @Security     BearerAuth
func (h *SchedulingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateServiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	req.ServiceID = id
	req.ChangedByID = changedBy(c)

	row, err := h.service.UpdateServiceStatus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "update service status")
		return
	}
	c.JSON(http.StatusOK, dto.ServiceEnvelope{OK: true, Service: MapSchedulingRowToResponse(row)})
}

// ListHistory godoc
// @Summary      Service status history
// @Description  Every status change of a service, newest first.
// @Tags         manager
// @Produce      json
// @Param        id  path      int  true  "Service ID"
// @Success      200 {array}   dto.StatusHistoryResponse
// @Failure      404 {object}  map[string]string "Service not found"
// @Router       /manager/services/{id}/history/ [get]
// @Security     BearerAuth
func (h *SchedulingHandler) ListHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	history, err := h.service.ListServiceHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "retrieve service history")
		return
	}
	resp := make([]dto.StatusHistoryResponse, 0, len(history))
	for _, entry := range history {
		resp = append(resp, dto.StatusHistoryResponse{
			ID:          entry.ID,
			OldStatus:   entry.OldStatus,
			NewStatus:   entry.NewStatus,
			ChangedByID: entry.ChangedByID,
			ChangedAt:   entry.ChangedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
