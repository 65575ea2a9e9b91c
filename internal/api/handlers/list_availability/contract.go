package list_availability

import (
	"context"
	"time"

	"github.com/salonmarket/booking-service/internal/service/availability/models"
)

type AvailabilityService interface {
	List(ctx context.Context, masterID int64) (*models.AvailabilityListResponse, error)
	ListWithSlots(ctx context.Context, masterID int64, date *time.Time) (*models.AvailabilityWithSlotsListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
