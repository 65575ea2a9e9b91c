package get_free_windows

import "errors"

var (
	// ErrInvalidDuration возвращается при неположительной длительности окна
	ErrInvalidDuration = errors.New("get_free_windows: invalid duration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_windows: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_free_windows: internal error")
)
