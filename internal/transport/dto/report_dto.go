package dto

import (
	"time"

	"headstone-api/internal/models"
)

type DashboardSummary struct {
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveServices int     `json:"active_services"`
	ServicesToday  int     `json:"services_today"`
	CrewsActive    int     `json:"crews_active"`
	CompletionRate float64 `json:"completion_rate"`
}

type UpcomingServiceResponse struct {
	ID             int64                `json:"id"`
	MemorialName   string               `json:"memorial_name"`
	CemeteryName   string               `json:"cemetery_name"`
	ScheduledStart *time.Time           `json:"scheduled_start"`
	Status         models.ServiceStatus `json:"status"`
	StatusDisplay  string               `json:"status_display"`
}

type RecentServiceResponse struct {
	ID            int64   `json:"id"`
	MemorialName  string  `json:"memorial_name"`
	CemeteryName  string  `json:"cemetery_name"`
	CompletedDate *string `json:"completed_date"`
	Amount        *string `json:"amount"`
}

// DashboardResponse is the body of GET /dashboard/summary/.
type DashboardResponse struct {
	Summary          DashboardSummary          `json:"summary"`
	UpcomingServices []UpcomingServiceResponse `json:"upcoming_services"`
	RecentCompleted  []RecentServiceResponse   `json:"recent_completed"`
}

type MemorialSummaryResponse struct {
	ID                int64                 `json:"id"`
	Customer          string                `json:"customer"`
	Cemetery          string                `json:"cemetery"`
	LastServiceStatus *models.ServiceStatus `json:"last_service_status"`
	LastServiceDate   *string               `json:"last_service_date"`
}

type CemeterySummaryResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	City           string `json:"city"`
	MemorialsCount int    `json:"memorials_count"`
	ActiveServices int    `json:"active_services"`
}
