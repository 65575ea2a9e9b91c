package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	MasterID  int64     // ID мастера
	ServiceID *int64    // ID услуги; nil - без фильтра по услуге
	Date      time.Time // Дата (без времени)
}

// Slot доступный для бронирования слот
type Slot struct {
	ID              int64     `json:"id"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Source          string    `json:"source"`
}

// Response модель ответа со списком доступных слотов
type Response struct {
	MasterID  int64     `json:"masterId"`
	ServiceID *int64    `json:"serviceId,omitempty"`
	Date      time.Time `json:"date"`
	Slots     []Slot    `json:"slots"`
}
