package get_available_slots

import (
	"context"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория деклараций доступности
type AvailabilityRepository interface {
	GetByMasterAndDate(ctx context.Context, masterID int64, date time.Time) (*domain.Availability, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Slot, error)
	BulkCreate(ctx context.Context, slots []*domain.Slot) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error)
}

// CatalogProvider интерфейс каталога услуг
type CatalogProvider interface {
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
