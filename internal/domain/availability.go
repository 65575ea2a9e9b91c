package domain

import (
	"time"

	"github.com/salonmarket/booking-service/pkg/types"
)

// Availability represents a master's declared working window for one calendar date.
// At most one live row exists per (MasterID, Date); declarations for the same
// date overwrite the row in place (upsert), withdrawal soft-deletes it.
type Availability struct {
	ID                  int64
	MasterID            int64
	Date                time.Time // calendar date, midnight UTC, no zone conversion
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	IsAvailable         bool
	DeletedAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsDeleted returns true if the declaration was withdrawn
func (a *Availability) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Window returns the absolute start and end of the working window on a.Date
func (a *Availability) Window() (time.Time, time.Time, error) {
	start, err := a.StartTime.On(a.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := a.EndTime.On(a.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// AvailabilityPatch набор изменяемых полей декларации доступности.
// nil-поле означает "не менять".
type AvailabilityPatch struct {
	StartTime           *types.TimeString
	EndTime             *types.TimeString
	SlotDurationMinutes *int
	IsAvailable         *bool
}

// ChangesWindow returns true if applying the patch changes the slot grid
// (window bounds or slot duration), which forces regeneration.
func (p *AvailabilityPatch) ChangesWindow(a *Availability) bool {
	if p.StartTime != nil && *p.StartTime != a.StartTime {
		return true
	}
	if p.EndTime != nil && *p.EndTime != a.EndTime {
		return true
	}
	if p.SlotDurationMinutes != nil && *p.SlotDurationMinutes != a.SlotDurationMinutes {
		return true
	}
	return false
}
