package create_slot

import (
	"context"

	"github.com/salonmarket/booking-service/internal/service/slots/models"
)

type SlotService interface {
	Create(ctx context.Context, masterID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
