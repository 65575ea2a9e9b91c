package regenerate_slots

import (
	"context"
	"time"

	"github.com/salonmarket/booking-service/internal/service/availability/models"
)

type AvailabilityService interface {
	Regenerate(ctx context.Context, masterID int64, date time.Time) (*models.RegenerateSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
