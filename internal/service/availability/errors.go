package availability

import "errors"

var (
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrInvalidSlotDuration  = errors.New("invalid slot duration")
	ErrInternal             = errors.New("internal error")
)
