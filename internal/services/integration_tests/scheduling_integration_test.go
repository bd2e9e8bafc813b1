package integration_tests

import (
	"errors"
	"testing"
	"time"

	"headstone-api/internal/models"
	"headstone-api/internal/services"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingIntegration_AssignAndComplete(t *testing.T) {
	e := newEnv(t)
	_, memorial := createMemorial(t, e, "Eleanor Rigby")
	tech := createTechnician(t, e, "mason")
	sched := e.scheduling()

	created, err := sched.CreateService(e.ctx, &dto.CreateServiceRequest{
		MemorialID:   memorial.ID,
		ServiceType:  models.ServiceTypeCleaning,
		InitialPrice: ptrDecimal("150.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusDraft, created.Status)
	require.NotNil(t, created.Price)
	assert.True(t, created.Price.Equal(*ptrDecimal("150")))

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Minute)
	assigned, err := sched.AssignTechnician(e.ctx, &dto.AssignTechnicianRequest{
		ServiceID:        created.ID,
		TechnicianID:     tech.ID,
		ScheduledStart:   &start,
		EstimatedMinutes: 90,
		Price:            ptrDecimal("320.00"),
		GPSLat:           ptrDecimal("40.712776"),
		GPSLng:           ptrDecimal("-74.005974"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusScheduled, assigned.Status)
	require.NotNil(t, assigned.TechnicianID)
	assert.Equal(t, tech.ID, *assigned.TechnicianID)
	require.NotNil(t, assigned.Price)
	assert.True(t, assigned.Price.Equal(*ptrDecimal("320")))
	require.NotNil(t, assigned.GPSLat)
	assert.True(t, assigned.GPSLat.Equal(*ptrDecimal("40.712776")))

	board, err := sched.ListBoard(e.ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Eleanor Rigby", board[0].MemorialName)

	_, err = sched.UpdateServiceStatus(e.ctx, &dto.UpdateServiceStatusRequest{ServiceID: created.ID, Status: models.ServiceStatusInProgress})
	require.NoError(t, err)
	done, err := sched.UpdateServiceStatus(e.ctx, &dto.UpdateServiceStatusRequest{ServiceID: created.ID, Status: models.ServiceStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusCompleted, done.Status)

	history, err := sched.ListServiceHistory(e.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, models.ServiceStatusCompleted, history[0].NewStatus)

	summary, err := e.reports().DashboardSummary(e.ctx)
	require.NoError(t, err)
	assert.True(t, summary.Counts.TotalRevenue.Equal(*ptrDecimal("320")))
	assert.Equal(t, 1, summary.Counts.Completed)
	assert.InDelta(t, 100.0, summary.CompletionRate, 0.001)
	require.Len(t, summary.Recent, 1)
	require.NotNil(t, summary.Recent[0].Amount)
	assert.True(t, summary.Recent[0].Amount.Equal(*ptrDecimal("320")))

	reopened, err := sched.AssignTechnician(e.ctx, &dto.AssignTechnicianRequest{
		ServiceID: created.ID, TechnicianID: tech.ID, ScheduledStart: &start, EstimatedMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceStatusScheduled, reopened.Status)
	history, err = sched.ListServiceHistory(e.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, models.ServiceStatusCompleted, history[0].OldStatus)
}

func TestSchedulingIntegration_ReassignReplacesTechnician(t *testing.T) {
	e := newEnv(t)
	_, memorial := createMemorial(t, e, "Father McKenzie")
	first := createTechnician(t, e, "first")
	second := createTechnician(t, e, "second")
	sched := e.scheduling()

	created, err := sched.CreateService(e.ctx, &dto.CreateServiceRequest{MemorialID: memorial.ID})
	require.NoError(t, err)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute)
	for _, tech := range []*models.Employee{first, second} {
		_, err := sched.AssignTechnician(e.ctx, &dto.AssignTechnicianRequest{
			ServiceID: created.ID, TechnicianID: tech.ID, ScheduledStart: &start, EstimatedMinutes: 60,
		})
		require.NoError(t, err)
	}

	assignments, err := e.store.Assignments().ListByService(e.ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, second.ID, assignments[0].EmployeeID)

	history, err := sched.ListServiceHistory(e.ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "re-assigning a scheduled service records no transition")
}

func TestStoreIntegration_WithTxRollsBack(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("boom")

	err := e.store.WithTx(e.ctx, func(tx storage.Store) error {
		_, err := tx.Customers().Create(e.ctx, &models.Customer{FullName: "Rolled Back"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	customers, err := e.store.Customers().List(e.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestRecordIntegration_DeleteRules(t *testing.T) {
	e := newEnv(t)
	customer, memorial := createMemorial(t, e, "Desmond Jones")

	err := e.customers().DeleteCustomer(e.ctx, customer.ID)
	assert.ErrorIs(t, err, services.ErrConflict)

	err = e.records().DeletePlot(e.ctx, memorial.PlotID)
	assert.ErrorIs(t, err, services.ErrConflict)

	svc, err := e.scheduling().CreateService(e.ctx, &dto.CreateServiceRequest{MemorialID: memorial.ID})
	require.NoError(t, err)
	err = e.records().DeleteMemorial(e.ctx, memorial.ID)
	assert.ErrorIs(t, err, services.ErrConflict)

	n, err := e.store.Services().CountByMemorial(e.ctx, memorial.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Services have no delete operation; drop the row directly.
	_, err = e.pool.Exec(e.ctx, "DELETE FROM services WHERE id = $1", svc.ID)
	require.NoError(t, err)
	require.NoError(t, e.records().DeleteMemorial(e.ctx, memorial.ID))
	require.NoError(t, e.records().DeletePlot(e.ctx, memorial.PlotID))
	require.NoError(t, e.customers().DeleteCustomer(e.ctx, customer.ID))
}

func TestEmployeeIntegration_DuplicateUsername(t *testing.T) {
	e := newEnv(t)
	createTechnician(t, e, "duplicate")

	_, err := e.employees().CreateEmployee(e.ctx, &dto.CreateEmployeeRequest{
		Username: "duplicate", Password: "correct-horse", FullName: "Second",
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
}
