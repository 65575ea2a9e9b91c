package models

import (
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	"github.com/salonmarket/booking-service/pkg/types"
)

// Request модели

// UpdateAvailabilityRequest запрос на частичное обновление декларации доступности
type UpdateAvailabilityRequest struct {
	StartTime           *string `json:"startTime,omitempty"`           // "HH:MM"
	EndTime             *string `json:"endTime,omitempty"`             // "HH:MM"
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"` // Длительность слота в минутах
	IsAvailable         *bool   `json:"isAvailable,omitempty"`         // false - мастер недоступен в этот день
}

// ToDomainPatch конвертирует request в domain патч
func (r *UpdateAvailabilityRequest) ToDomainPatch() (domain.AvailabilityPatch, error) {
	patch := domain.AvailabilityPatch{
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsAvailable:         r.IsAvailable,
	}

	if r.StartTime != nil {
		ts, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return patch, err
		}
		patch.StartTime = &ts
	}

	if r.EndTime != nil {
		ts, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return patch, err
		}
		patch.EndTime = &ts
	}

	return patch, nil
}

// Response модели

// AvailabilityResponse ответ с данными декларации доступности
type AvailabilityResponse struct {
	ID                  int64  `json:"id"`
	MasterID            int64  `json:"masterId"`
	Date                string `json:"date"`      // "2025-10-15"
	StartTime           string `json:"startTime"` // "10:00"
	EndTime             string `json:"endTime"`   // "19:00"
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	IsAvailable         bool   `json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailabilityListResponse ответ со списком деклараций
type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
}

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

// AvailabilityWithSlotsResponse декларация вместе со своими слотами
type AvailabilityWithSlotsResponse struct {
	Availability AvailabilityResponse `json:"availability"`
	Slots        []SlotResponse       `json:"slots"`
}

// AvailabilityWithSlotsListResponse список деклараций со слотами
type AvailabilityWithSlotsListResponse struct {
	Items []AvailabilityWithSlotsResponse `json:"items"`
}

// RegenerateSlotsResponse результат перегенерации слотов
type RegenerateSlotsResponse struct {
	Deleted   int64 `json:"deleted"`
	Generated int   `json:"generated"`
}

// Методы конвертации

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(av *domain.Availability) *AvailabilityResponse {
	if av == nil {
		return nil
	}

	return &AvailabilityResponse{
		ID:                  av.ID,
		MasterID:            av.MasterID,
		Date:                av.Date.Format(domain.DateFormat),
		StartTime:           av.StartTime.String(),
		EndTime:             av.EndTime.String(),
		SlotDurationMinutes: av.SlotDurationMinutes,
		IsAvailable:         av.IsAvailable,
		CreatedAt:           av.CreatedAt,
		UpdatedAt:           av.UpdatedAt,
	}
}

// FromDomainAvailabilityList конвертирует список domain моделей в DTO
func FromDomainAvailabilityList(avs []*domain.Availability) *AvailabilityListResponse {
	resp := &AvailabilityListResponse{
		Availabilities: make([]AvailabilityResponse, 0, len(avs)),
	}

	for _, av := range avs {
		if r := FromDomainAvailability(av); r != nil {
			resp.Availabilities = append(resp.Availabilities, *r)
		}
	}

	return resp
}

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

// FromDomainSlotList конвертирует список слотов в DTO
func FromDomainSlotList(slots []*domain.Slot) []SlotResponse {
	resp := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		if r := FromDomainSlot(s); r != nil {
			resp = append(resp, *r)
		}
	}
	return resp
}
