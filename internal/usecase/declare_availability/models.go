package declare_availability

import (
	"time"

	"github.com/salonmarket/booking-service/pkg/types"
)

// Request модель запроса на декларацию доступности
type Request struct {
	MasterID            int64            // ID мастера
	Date                time.Time        // Дата (без времени)
	StartTime           types.TimeString // Начало рабочего окна, например "10:00"
	EndTime             types.TimeString // Конец рабочего окна, например "19:00"
	SlotDurationMinutes int              // Длительность слота; 0 - значение по умолчанию
	IsAvailable         *bool            // nil трактуется как true
}

// Response модель ответа с созданной декларацией
type Response struct {
	ID                  int64            // ID декларации
	MasterID            int64            // ID мастера
	Date                time.Time        // Дата
	StartTime           types.TimeString // Начало окна
	EndTime             types.TimeString // Конец окна
	SlotDurationMinutes int              // Длительность слота
	IsAvailable         bool             // Доступен ли мастер в этот день
	SlotsGenerated      int              // Сколько свободных слотов нарезано

	CreatedAt time.Time
	UpdatedAt time.Time
}
