package models

import (
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на ручное создание слота мастером
type CreateSlotRequest struct {
	ServiceID *int64    `json:"serviceId,omitempty"` // nil - универсальный слот
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// UpdateSlotRequest запрос на частичное обновление слота
type UpdateSlotRequest struct {
	ServiceID *int64     `json:"serviceId,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// ChangesTime возвращает true, если запрос двигает границы слота
func (r *UpdateSlotRequest) ChangesTime() bool {
	return r.StartTime != nil || r.EndTime != nil
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID              int64     `json:"id"`
	MasterID        int64     `json:"masterId"`
	ServiceID       *int64    `json:"serviceId,omitempty"`
	BookingID       *int64    `json:"bookingId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель слота в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:              s.ID,
		MasterID:        s.MasterID,
		ServiceID:       s.ServiceID,
		BookingID:       s.BookingID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes(),
		Status:          string(s.Status),
		Source:          string(s.Source),
	}
}
