package handlers

import (
	"net/http"
	"strconv"
	"time"

	"headstone-api/internal/api/middleware"
	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// parseIDParam reads a positive integer path parameter, writing a 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return id, true
}

// changedBy is the employee behind an authenticated request, if any.
func changedBy(c *gin.Context) *int64 {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.EmployeeID == 0 {
		return nil
	}
	id := claims.EmployeeID
	return &id
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func fixed(d *decimal.Decimal, places int32) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(places)
	return &s
}

func MapSchedulingRowToResponse(row *models.SchedulingServiceRow) dto.SchedulingServiceResponse {
	resp := dto.SchedulingServiceResponse{
		ID:               row.ID,
		ServiceType:      row.ServiceType,
		Status:           row.Status,
		ScheduledStart:   row.ScheduledStart,
		EstimatedMinutes: row.EstimatedMinutes,
		MemorialName:     row.MemorialName,
		CemeteryName:     row.CemeteryName,
		TechnicianID:     row.TechnicianID,
		TechnicianName:   row.TechnicianName,
		GPSLat:           fixed(row.GPSLat, 6),
		GPSLng:           fixed(row.GPSLng, 6),
	}
	if row.Price != nil {
		price := row.Price.InexactFloat64()
		resp.Price = &price
	}
	return resp
}

func MapDashboardToResponse(report *services.DashboardReport) dto.DashboardResponse {
	resp := dto.DashboardResponse{
		Summary: dto.DashboardSummary{
			TotalRevenue:   report.Counts.TotalRevenue.InexactFloat64(),
			ActiveServices: report.Counts.ActiveServices,
			ServicesToday:  report.Counts.ServicesToday,
			CrewsActive:    report.Counts.CrewsActive,
			CompletionRate: report.CompletionRate,
		},
		UpcomingServices: make([]dto.UpcomingServiceResponse, 0, len(report.Upcoming)),
		RecentCompleted:  make([]dto.RecentServiceResponse, 0, len(report.Recent)),
	}
	for _, u := range report.Upcoming {
		resp.UpcomingServices = append(resp.UpcomingServices, dto.UpcomingServiceResponse{
			ID:             u.ID,
			MemorialName:   u.MemorialName,
			CemeteryName:   u.CemeteryName,
			ScheduledStart: u.ScheduledStart,
			Status:         u.Status,
			StatusDisplay:  u.Status.Display(),
		})
	}
	for _, r := range report.Recent {
		resp.RecentCompleted = append(resp.RecentCompleted, dto.RecentServiceResponse{
			ID:            r.ID,
			MemorialName:  r.MemorialName,
			CemeteryName:  r.CemeteryName,
			CompletedDate: formatDate(r.CompletedDate),
			Amount:        fixed(r.Amount, 2),
		})
	}
	return resp
}

func MapEmployeeToResponse(e *models.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:       e.ID,
		Username: e.Username,
		FullName: e.FullName,
		Email:    e.Email,
		Phone:    e.Phone,
		Role:     e.Role,
		IsActive: e.IsActive,
	}
}

func MapPhotoToResponse(p *models.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:         p.ID,
		MemorialID: p.MemorialID,
		ServiceID:  p.ServiceID,
		PhotoType:  p.PhotoType,
		ImageURL:   p.ImageURL,
		Caption:    p.Caption,
		CreatedAt:  p.CreatedAt,
	}
}

func MapInvoiceDetailToResponse(d *services.InvoiceDetail) dto.InvoiceResponse {
	inv := d.Invoice
	resp := dto.InvoiceResponse{
		ID:          inv.ID,
		CustomerID:  inv.CustomerID,
		ServiceID:   inv.ServiceID,
		Status:      inv.Status,
		IssuedDate:  formatDate(inv.IssuedDate),
		DueDate:     formatDate(inv.DueDate),
		Currency:    inv.Currency,
		TotalAmount: inv.TotalAmount.StringFixed(2),
		AmountPaid:  d.AmountPaid.StringFixed(2),
		PaidAt:      inv.PaidAt,
		Notes:       inv.Notes,
		Items:       make([]dto.InvoiceItemResponse, 0, len(d.Items)),
		Payments:    make([]dto.PaymentResponse, 0, len(d.Payments)),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity.StringFixed(2),
			UnitPrice:   it.UnitPrice.StringFixed(2),
			LineTotal:   it.LineTotal().StringFixed(2),
		})
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:                p.ID,
			Provider:          p.Provider,
			Status:            p.Status,
			Method:            p.Method,
			Currency:          p.Currency,
			Amount:            p.Amount.StringFixed(2),
			ProviderReference: p.ProviderReference,
			SucceededAt:       p.SucceededAt,
			CreatedAt:         p.CreatedAt,
		})
	}
	return resp
}
