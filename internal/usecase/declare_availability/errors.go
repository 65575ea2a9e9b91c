package declare_availability

import "errors"

var (
	// ErrMasterNotFound возвращается, когда мастер не найден или неактивен
	ErrMasterNotFound = errors.New("declare_availability: master not found")

	// ErrInvalidTimeRange возвращается, когда начало окна не раньше конца
	ErrInvalidTimeRange = errors.New("declare_availability: invalid time range")

	// ErrInvalidSlotDuration возвращается при некорректной длительности слота
	ErrInvalidSlotDuration = errors.New("declare_availability: invalid slot duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("declare_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("declare_availability: internal error")
)
