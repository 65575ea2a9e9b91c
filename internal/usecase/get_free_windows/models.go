package get_free_windows

import "time"

// Request модель запроса на получение свободных окон произвольной длительности
type Request struct {
	MasterID        int64     // ID мастера
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Требуемая длительность окна
}

// Window свободное окно, в которое помещается услуга требуемой длительности
type Window struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Response модель ответа со списком свободных окон
type Response struct {
	MasterID        int64     `json:"masterId"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"durationMinutes"`
	Windows         []Window  `json:"windows"`
}
