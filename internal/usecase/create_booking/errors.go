package create_booking

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrMasterNotFound возвращается, когда мастер не найден или неактивен
	ErrMasterNotFound = errors.New("create_booking: master not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotOfferedByMaster возвращается, когда услуга принадлежит другому мастеру
	ErrServiceNotOfferedByMaster = errors.New("create_booking: service is not offered by this master")

	// ErrSlotNotFound возвращается, когда указанный слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotUnavailable возвращается, когда указанный слот не свободен или принадлежит другому мастеру
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrTimeConflict возвращается при пересечении с подтвержденным бронированием мастера
	ErrTimeConflict = errors.New("create_booking: time conflict with an existing booking")

	// ErrInvalidTimeRange возвращается, когда начало интервала не раньше конца
	ErrInvalidTimeRange = errors.New("create_booking: invalid time range")

	// ErrInvalidDate возвращается при попытке бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
