package dto

import (
	"time"

	"headstone-api/internal/models"

	"github.com/shopspring/decimal"
)

type CreateCemeteryRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Address      string `json:"address" validate:"max=255"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	ContactName  string `json:"contact_name" validate:"max=200"`
	ContactPhone string `json:"contact_phone" validate:"max=50"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=254"`
	Notes        string `json:"notes"`
}

type CreatePlotRequest struct {
	CemeteryID  int64            `json:"-" validate:"required,gt=0"`
	Section     string           `json:"section" validate:"max=50"`
	Row         string           `json:"row" validate:"max=50"`
	PlotNumber  string           `json:"plot_number" validate:"max=50"`
	GPSLat      *decimal.Decimal `json:"gps_lat,omitempty"`
	GPSLng      *decimal.Decimal `json:"gps_lng,omitempty"`
	AccessNotes string           `json:"access_notes"`
}

func (r *CreatePlotRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.GPSLat != nil {
		if msg := checkDecimal(*r.GPSLat, maxGPSDigits, 6, false); msg != "" {
			errs["gps_lat"] = msg
		}
	}
	if r.GPSLng != nil {
		if msg := checkDecimal(*r.GPSLng, maxGPSDigits, 6, false); msg != "" {
			errs["gps_lng"] = msg
		}
	}
	if (r.GPSLat == nil) != (r.GPSLng == nil) {
		errs["non_field_errors"] = "Provide both gps_lat and gps_lng, or leave both empty."
	}
	return errs
}

type CreateMemorialRequest struct {
	CustomerID       int64           `json:"customer_id" validate:"required,gt=0"`
	PlotID           int64           `json:"plot_id" validate:"required,gt=0"`
	Material         models.Material `json:"material" validate:"omitempty,oneof=granite marble limestone sandstone bronze other"`
	InscriptionText  string          `json:"inscription_text"`
	ConditionSummary string          `json:"condition_summary"`
	InstallDate      *string         `json:"install_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes            string          `json:"notes"`
}

type CreatePhotoRequest struct {
	MemorialID int64            `json:"-" validate:"required,gt=0"`
	ServiceID  *int64           `json:"service_id,omitempty" validate:"omitempty,gt=0"`
	PhotoType  models.PhotoType `json:"photo_type" validate:"omitempty,oneof=before during after other"`
	ImageURL   string           `json:"image_url" validate:"required,url,max=500"`
	Caption    string           `json:"caption" validate:"max=255"`
}

type PhotoResponse struct {
	ID         int64            `json:"id"`
	MemorialID int64            `json:"memorial_id"`
	ServiceID  *int64           `json:"service_id"`
	PhotoType  models.PhotoType `json:"photo_type"`
	ImageURL   string           `json:"image_url"`
	Caption    string           `json:"caption"`
	CreatedAt  time.Time        `json:"created_at"`
}
