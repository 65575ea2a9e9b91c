package bookings

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingImmutable = errors.New("booking is in a terminal state")
	ErrTimeConflict     = errors.New("booking time conflict")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)
