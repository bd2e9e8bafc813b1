package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"headstone-api/internal/cache"
	"headstone-api/internal/models"
	"headstone-api/internal/storage"

	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard:summary"

// isValidServiceTransition defines the allowed status changes.
func isValidServiceTransition(from, to models.ServiceStatus) bool {
	switch from {
	case models.ServiceStatusDraft:
		return to == models.ServiceStatusScheduled || to == models.ServiceStatusCanceled
	case models.ServiceStatusScheduled:
		// scheduled -> scheduled is a reschedule
		return to == models.ServiceStatusScheduled ||
			to == models.ServiceStatusInProgress ||
			to == models.ServiceStatusCanceled
	case models.ServiceStatusInProgress:
		return to == models.ServiceStatusCompleted || to == models.ServiceStatusCanceled
	case models.ServiceStatusCompleted, models.ServiceStatusCanceled:
		// Terminal states
		return false
	default:
		return false
	}
}

// MapRepoError maps storage errors to service errors
func MapRepoError(logger *zap.Logger, err error, operation string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	if errors.Is(err, storage.ErrDuplicateUsername) {
		return fieldError("username", "A user with that username already exists.")
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %s (%v)", ErrConflict, operation, err)
	}
	logger.Error("Unexpected repository error", zap.String("operation", operation), zap.Error(err))
	return fmt.Errorf("internal error during %s: %w", operation, err)
}

// dateOf returns the calendar date of t in loc as a UTC midnight, the
// shape DATE columns round-trip as.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// invalidateDashboard drops the cached dashboard after a write. A cache
// failure never fails the write.
func invalidateDashboard(ctx context.Context, c cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, dashboardCacheKey); err != nil {
		logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}

func ptr[T any](v T) *T { return &v }
