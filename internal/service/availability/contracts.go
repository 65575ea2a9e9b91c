package availability

import (
	"context"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория деклараций доступности
type AvailabilityRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Availability, error)
	GetByMasterAndDate(ctx context.Context, masterID int64, date time.Time) (*domain.Availability, error)
	ListByMaster(ctx context.Context, masterID int64) ([]*domain.Availability, error)
	Update(ctx context.Context, av *domain.Availability) error
	SoftDelete(ctx context.Context, id int64, masterID int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	BulkCreate(ctx context.Context, slots []*domain.Slot) error
	ListByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Slot, error)
	DeleteNonBookedByRange(ctx context.Context, masterID int64, from, to time.Time) (int64, error)
	BlockByRange(ctx context.Context, masterID int64, from, to time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
