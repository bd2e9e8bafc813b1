package handlers_test

import (
	"testing"
	"time"

	"headstone-api/internal/api/handlers"
	"headstone-api/internal/models"
	"headstone-api/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDashboardToResponse(t *testing.T) {
	start := time.Date(2026, 3, 12, 14, 30, 0, 0, time.UTC)
	completed := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("250.5")

	resp := handlers.MapDashboardToResponse(&services.DashboardReport{
		Counts: models.DashboardCounts{
			TotalRevenue:   decimal.RequireFromString("850.25"),
			ActiveServices: 6,
			ServicesToday:  1,
			CrewsActive:    2,
			Completed:      1,
			Total:          8,
		},
		CompletionRate: 12.5,
		Upcoming: []models.UpcomingServiceRow{
			{ID: 1, MemorialName: "Jane Doe", CemeteryName: "Oak Hill", ScheduledStart: &start, Status: models.ServiceStatusInProgress},
		},
		Recent: []models.RecentServiceRow{
			{ID: 2, MemorialName: "John Roe", CemeteryName: "Elm Grove", CompletedDate: &completed, Amount: &amount},
			{ID: 3, MemorialName: "Ann Poe", CemeteryName: "Elm Grove"},
		},
	})

	assert.Equal(t, 850.25, resp.Summary.TotalRevenue)
	assert.Equal(t, 12.5, resp.Summary.CompletionRate)
	require.Len(t, resp.UpcomingServices, 1)
	assert.Equal(t, "In progress", resp.UpcomingServices[0].StatusDisplay)
	require.Len(t, resp.RecentCompleted, 2)
	assert.Equal(t, "2026-03-09", *resp.RecentCompleted[0].CompletedDate)
	assert.Equal(t, "250.50", *resp.RecentCompleted[0].Amount)
	assert.Nil(t, resp.RecentCompleted[1].CompletedDate)
	assert.Nil(t, resp.RecentCompleted[1].Amount)
}

func TestMapInvoiceDetailToResponse(t *testing.T) {
	issued := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	resp := handlers.MapInvoiceDetailToResponse(&services.InvoiceDetail{
		Invoice: models.Invoice{
			ID: 4, CustomerID: 1, Status: models.InvoiceStatusDraft, Currency: "usd",
			IssuedDate: &issued, TotalAmount: decimal.RequireFromString("106.375").Round(2),
		},
		Items: []models.InvoiceItem{
			{ID: 1, Description: "Cleaning", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("45.5")},
		},
		AmountPaid: decimal.NewFromInt(60),
	})

	assert.Equal(t, "106.38", resp.TotalAmount)
	assert.Equal(t, "60.00", resp.AmountPaid)
	assert.Equal(t, "2026-03-10", *resp.IssuedDate)
	assert.Nil(t, resp.DueDate)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "91.00", resp.Items[0].LineTotal)
	assert.Empty(t, resp.Payments)
}
