package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Read-model rows. Each is produced by a single aggregation query in the
// storage layer and mapped to a response DTO by the handlers.

// SchedulingServiceRow is one entry of the scheduling board.
type SchedulingServiceRow struct {
	ID               int64
	ServiceType      ServiceType
	Status           ServiceStatus
	ScheduledStart   *time.Time
	EstimatedMinutes *int
	MemorialName     string
	CemeteryName     string
	TechnicianID     *int64
	TechnicianName   *string
	Price            *decimal.Decimal
	GPSLat           *decimal.Decimal
	GPSLng           *decimal.Decimal
	CreatedAt        time.Time
}

// DashboardCounts holds the scalar part of the dashboard summary.
type DashboardCounts struct {
	TotalRevenue   decimal.Decimal
	ActiveServices int
	ServicesToday  int
	CrewsActive    int
	Completed      int
	Total          int
}

// UpcomingServiceRow is an active service with a scheduled start.
type UpcomingServiceRow struct {
	ID             int64
	MemorialName   string
	CemeteryName   string
	ScheduledStart *time.Time
	Status         ServiceStatus
}

// RecentServiceRow is a completed service with its latest invoice amount.
type RecentServiceRow struct {
	ID            int64
	MemorialName  string
	CemeteryName  string
	CompletedDate *time.Time
	Amount        *decimal.Decimal
}

type MemorialSummaryRow struct {
	ID                int64
	Customer          string
	Cemetery          string
	LastServiceStatus *ServiceStatus
	LastServiceDate   *time.Time
}

type CustomerSummaryRow struct {
	ID             int64
	FullName       string
	Email          string
	Phone          string
	MemorialsCount int
	LastContact    *time.Time
}

type CemeterySummaryRow struct {
	ID             int64
	Name           string
	City           string
	MemorialsCount int
	ActiveServices int
}
