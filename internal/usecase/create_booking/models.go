package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	ClientID  int64      // ID клиента
	MasterID  int64      // ID мастера
	ServiceID int64      // ID услуги
	SlotID    *int64     // Необязательная привязка к слоту
	StartTime time.Time  // Начало интервала
	EndTime   *time.Time // Конец интервала; nil - вычисляется из длительности услуги
	Comment   *string    // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64     // ID созданного бронирования
	ClientID  int64     // ID клиента
	MasterID  int64     // ID мастера
	ServiceID int64     // ID услуги
	SlotID    *int64    // Привязанный слот, если был указан
	StartTime time.Time // Начало интервала
	EndTime   time.Time // Конец интервала
	Status    string    // Статус бронирования

	// Денормализованные данные
	ServiceName string  // Название услуги
	Price       float64 // Цена услуги на момент бронирования

	Comment *string // Комментарий клиента

	CreatedAt time.Time
	UpdatedAt time.Time
}
