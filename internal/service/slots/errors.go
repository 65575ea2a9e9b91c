package slots

import "errors"

var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotImmutable       = errors.New("slot is booked")
	ErrTimeConflict        = errors.New("slot time conflict")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrInvalidSlotDuration = errors.New("invalid slot duration")
	ErrInternal            = errors.New("internal error")
)
