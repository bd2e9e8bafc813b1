package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler serves the read-only list and dashboard endpoints.
type ReportHandler struct {
	service services.ReportService
	logger  *zap.Logger
}

func NewReportHandler(service services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger.Named("reports")}
}

// DashboardSummary godoc
// @Summary      Dashboard summary
// @Description  Revenue, active work, today's services, active crews, completion rate, and the upcoming and recently completed services.
// @Tags         reports
// @Produce      json
// @Success      200 {object}  dto.DashboardResponse
// @Failure      500 {object}  map[string]string "Internal Server Error"
// @Router       /dashboard/summary/ [get]
func (h *ReportHandler) DashboardSummary(c *gin.Context) {
	report, err := h.service.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "compute dashboard")
		return
	}
	c.JSON(http.StatusOK, MapDashboardToResponse(report))
}

// ListMemorials godoc
// @Summary      Memorials
// @Description  Memorials with their customer, cemetery and latest service, ordered by customer name.
// @Tags         reports
// @Produce      json
// @Success      200 {array}   dto.MemorialSummaryResponse
// @Router       /memorials/ [get]
func (h *ReportHandler) ListMemorials(c *gin.Context) {
	rows, err := h.service.ListMemorialSummaries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "retrieve memorials")
		return
	}
	resp := make([]dto.MemorialSummaryResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.MemorialSummaryResponse{
			ID:                r.ID,
			Customer:          r.Customer,
			Cemetery:          r.Cemetery,
			LastServiceStatus: r.LastServiceStatus,
			LastServiceDate:   formatDate(r.LastServiceDate),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ListCustomers godoc
// @Summary      Customers
// @Description  Customers with their memorial count and last completed service date.
// @Tags         reports
// @Produce      json
// @Success      200 {array}   dto.CustomerSummaryResponse
// @Router       /customers/ [get]
func (h *ReportHandler) ListCustomers(c *gin.Context) {
	rows, err := h.service.ListCustomerSummaries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "retrieve customers")
		return
	}
	resp := make([]dto.CustomerSummaryResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.CustomerSummaryResponse{
			ID:             r.ID,
			FullName:       r.FullName,
			Email:          r.Email,
			Phone:          r.Phone,
			MemorialsCount: r.MemorialsCount,
			LastContact:    formatDate(r.LastContact),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ListCemeteries godoc
// @Summary      Cemeteries
// @Description  Cemeteries with memorial and active service counts.
// @Tags         reports
// @Produce      json
// @Success      200 {array}   dto.CemeterySummaryResponse
// @Router       /cemeteries/ [get]
func (h *ReportHandler) ListCemeteries(c *gin.Context) {
	rows, err := h.service.ListCemeterySummaries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "retrieve cemeteries")
		return
	}
	resp := make([]dto.CemeterySummaryResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, dto.CemeterySummaryResponse{
			ID:             r.ID,
			Name:           r.Name,
			City:           r.City,
			MemorialsCount: r.MemorialsCount,
			ActiveServices: r.ActiveServices,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ListTechnicians godoc
// @Summary      Technicians
// @Description  Active employees with the tech role.
// @Tags         reports
// @Produce      json
// @Success      200 {array}   dto.TechnicianResponse
// @Router       /technicians/ [get]
func (h *ReportHandler) ListTechnicians(c *gin.Context) {
	techs, err := h.service.ListTechnicians(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "retrieve technicians")
		return
	}
	resp := make([]dto.TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		resp = append(resp, dto.TechnicianResponse{ID: t.ID, FullName: t.FullName, Email: t.Email, Phone: t.Phone})
	}
	c.JSON(http.StatusOK, resp)
}
