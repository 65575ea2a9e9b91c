package domain

import "time"

// Master represents a salon master whose time is being booked
type Master struct {
	ID        int64
	SalonID   int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client represents a client who books masters' time
type Client struct {
	ID        int64
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service represents a catalog service offered by a master
type Service struct {
	ID              int64
	MasterID        int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo returns true if the service is offered by the given master
func (s *Service) BelongsTo(masterID int64) bool {
	return s.MasterID == masterID
}
