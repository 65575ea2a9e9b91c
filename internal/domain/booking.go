package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a client reserving a master's time for a service
type Booking struct {
	ID        int64
	ClientID  int64
	MasterID  int64
	ServiceID int64
	SlotID    *int64 // optional link to a slot; the booking owns the association
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	// Denormalized data for history
	ServiceName string
	Price       float64 // snapshotted from the service at creation time

	Comment       *string
	MasterComment *string

	CancelledAt *time.Time
	DeletedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the booking counts for conflict detection
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a terminal status
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking accepts field edits
func (b *Booking) CanBeUpdated() bool {
	return !b.IsTerminal()
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// IsDeleted returns true if the booking is soft-deleted
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// ValidBookingStatus returns true for a known booking status value
func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// MasterBookingsFilter фильтр для получения бронирований мастера
type MasterBookingsFilter struct {
	MasterID         int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}
