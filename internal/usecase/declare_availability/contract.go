package declare_availability

import (
	"context"
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория деклараций доступности
type AvailabilityRepository interface {
	Upsert(ctx context.Context, av *domain.Availability) (*domain.Availability, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	BulkCreate(ctx context.Context, slots []*domain.Slot) error
	DeleteNonBookedByRange(ctx context.Context, masterID int64, from, to time.Time) (int64, error)
}

// CatalogProvider интерфейс каталога мастеров
type CatalogProvider interface {
	GetMaster(ctx context.Context, masterID int64) (*domain.Master, error)
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
