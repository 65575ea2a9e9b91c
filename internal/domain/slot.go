package domain

import "time"

// SlotStatus represents the status of a time slot
type SlotStatus string

const (
	SlotStatusFree    SlotStatus = "free"
	SlotStatusBooked  SlotStatus = "booked"
	SlotStatusBlocked SlotStatus = "blocked"
)

// SlotSource tells how a slot came into existence
type SlotSource string

const (
	SlotSourceAuto   SlotSource = "auto"   // generated from an availability window
	SlotSourceManual SlotSource = "manual" // created by the master individually
)

// Slot represents a discrete bookable time interval of a master.
// StartTime and EndTime are absolute timestamps, [StartTime, EndTime).
type Slot struct {
	ID        int64
	MasterID  int64
	ServiceID *int64 // nil = universal slot, any service fits
	BookingID *int64 // back-reference while booked, for status sync only
	StartTime time.Time
	EndTime   time.Time
	Status    SlotStatus
	Source    SlotSource
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree returns true if the slot can accept a booking
func (s *Slot) IsFree() bool {
	return s.Status == SlotStatusFree
}

// IsBooked returns true if a booking holds this slot
func (s *Slot) IsBooked() bool {
	return s.Status == SlotStatusBooked
}

// IsBlocked returns true if the slot was withdrawn without deletion
func (s *Slot) IsBlocked() bool {
	return s.Status == SlotStatusBlocked
}

// IsManual returns true if the slot was created by the master directly
func (s *Slot) IsManual() bool {
	return s.Source == SlotSourceManual
}

// DurationMinutes returns the slot length in whole minutes
func (s *Slot) DurationMinutes() int {
	return int(s.EndTime.Sub(s.StartTime) / time.Minute)
}

// FitsService returns true if the slot may host the given service:
// the slot is untagged (universal) or tagged with exactly this service.
func (s *Slot) FitsService(serviceID int64) bool {
	return s.ServiceID == nil || *s.ServiceID == serviceID
}
