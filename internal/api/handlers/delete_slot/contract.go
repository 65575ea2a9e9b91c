package delete_slot

import "context"

type SlotService interface {
	Delete(ctx context.Context, slotID int64, masterID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
