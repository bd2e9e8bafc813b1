package dto

import (
	"strconv"
	"time"

	"headstone-api/internal/models"

	"github.com/shopspring/decimal"
)

const (
	MaxEstimatedMinutes = 24 * 60
	maxMoneyDigits      = 10
	maxGPSDigits        = 9
)

// AssignTechnicianRequest is the body of POST /manager/services/{id}/assign/.
type AssignTechnicianRequest struct {
	ServiceID        int64            `json:"-" validate:"required,gt=0"`
	TechnicianID     int64            `json:"technician_id" validate:"required,gt=0"`
	ScheduledStart   *time.Time       `json:"scheduled_start" validate:"required"`
	EstimatedMinutes int              `json:"estimated_minutes" validate:"required,min=1,max=1440"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	GPSLat           *decimal.Decimal `json:"gps_lat,omitempty"`
	GPSLng           *decimal.Decimal `json:"gps_lng,omitempty"`
	ChangedByID      *int64           `json:"-"`
}

// Validate covers the decimal fields and the GPS pairing rule.
func (r *AssignTechnicianRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.Price != nil {
		if msg := checkDecimal(*r.Price, maxMoneyDigits, 2, true); msg != "" {
			errs["price"] = msg
		}
	}
	if r.GPSLat != nil {
		if msg := checkDecimal(*r.GPSLat, maxGPSDigits, 6, false); msg != "" {
			errs["gps_lat"] = msg
		} else if r.GPSLat.Abs().GreaterThan(decimal.NewFromInt(90)) {
			errs["gps_lat"] = "Ensure this value is between -90 and 90."
		}
	}
	if r.GPSLng != nil {
		if msg := checkDecimal(*r.GPSLng, maxGPSDigits, 6, false); msg != "" {
			errs["gps_lng"] = msg
		} else if r.GPSLng.Abs().GreaterThan(decimal.NewFromInt(180)) {
			errs["gps_lng"] = "Ensure this value is between -180 and 180."
		}
	}
	if (r.GPSLat == nil) != (r.GPSLng == nil) {
		errs["non_field_errors"] = "Provide both gps_lat and gps_lng, or leave both empty."
	}
	return errs
}

// CreateServiceRequest is the body of POST /scheduling/services/create/.
type CreateServiceRequest struct {
	MemorialID   int64              `json:"memorial_id" validate:"required,gt=0"`
	ServiceType  models.ServiceType `json:"service_type,omitempty" validate:"omitempty,oneof=cleaning reset leveling repair engraving other"`
	InitialPrice *decimal.Decimal   `json:"initial_price,omitempty"`
	ChangedByID  *int64             `json:"-"`
}

func (r *CreateServiceRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.InitialPrice != nil {
		if msg := checkDecimal(*r.InitialPrice, maxMoneyDigits, 2, true); msg != "" {
			errs["initial_price"] = msg
		}
	}
	return errs
}

// UpdateServiceStatusRequest is the body of PATCH /manager/services/{id}/status/.
type UpdateServiceStatusRequest struct {
	ServiceID   int64                `json:"-" validate:"required,gt=0"`
	Status      models.ServiceStatus `json:"status" validate:"required,oneof=draft scheduled in_progress completed canceled"`
	ChangedByID *int64               `json:"-"`
}

// checkDecimal mirrors a NUMERIC(digits, places) column.
func checkDecimal(d decimal.Decimal, digits, places int, nonNegative bool) string {
	if nonNegative && d.IsNegative() {
		return "Ensure this value is greater than or equal to 0."
	}
	if !d.Equal(d.Truncate(int32(places))) {
		return "Ensure that there are no more than " + strconv.Itoa(places) + " decimal places."
	}
	limit := decimal.New(1, int32(digits-places))
	if d.Abs().GreaterThanOrEqual(limit) {
		return "Ensure that there are no more than " + strconv.Itoa(digits) + " digits in total."
	}
	return ""
}

// SchedulingServiceResponse is the scheduling board projection of a service.
type SchedulingServiceResponse struct {
	ID               int64                `json:"id"`
	ServiceType      models.ServiceType   `json:"service_type"`
	Status           models.ServiceStatus `json:"status"`
	ScheduledStart   *time.Time           `json:"scheduled_start"`
	EstimatedMinutes *int                 `json:"estimated_minutes"`
	MemorialName     string               `json:"memorial_name"`
	CemeteryName     string               `json:"cemetery_name"`
	TechnicianID     *int64               `json:"technician_id"`
	TechnicianName   *string              `json:"technician_name"`
	Price            *float64             `json:"price"`
	GPSLat           *string              `json:"gps_lat"`
	GPSLng           *string              `json:"gps_lng"`
}

// ServiceEnvelope wraps a single projection as {"ok": true, "service": {...}}.
type ServiceEnvelope struct {
	OK      bool                      `json:"ok"`
	Service SchedulingServiceResponse `json:"service"`
}

// StatusHistoryResponse is one entry of GET /manager/services/{id}/history/.
type StatusHistoryResponse struct {
	ID          int64                `json:"id"`
	OldStatus   models.ServiceStatus `json:"old_status"`
	NewStatus   models.ServiceStatus `json:"new_status"`
	ChangedByID *int64               `json:"changed_by"`
	ChangedAt   time.Time            `json:"changed_at"`
}
