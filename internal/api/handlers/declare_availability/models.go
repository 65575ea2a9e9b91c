package declare_availability

import (
	"time"

	"github.com/salonmarket/booking-service/internal/domain"
	declareAvailability "github.com/salonmarket/booking-service/internal/usecase/declare_availability"
	"github.com/salonmarket/booking-service/pkg/types"
)

// DeclareAvailabilityRequest HTTP request model
type DeclareAvailabilityRequest struct {
	Date                string `json:"date"`      // "2025-10-15"
	StartTime           string `json:"startTime"` // "10:00"
	EndTime             string `json:"endTime"`   // "19:00"
	SlotDurationMinutes int    `json:"slotDurationMinutes,omitempty"`
	IsAvailable         *bool  `json:"isAvailable,omitempty"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ID                  int64  `json:"id"`
	MasterID            int64  `json:"masterId"`
	Date                string `json:"date"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	IsAvailable         bool   `json:"isAvailable"`
	SlotsGenerated      int    `json:"slotsGenerated"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DeclareAvailabilityRequest) ToUseCaseRequest(masterID int64) (*declareAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &declareAvailability.Request{
		MasterID:            masterID,
		Date:                date,
		StartTime:           startTime,
		EndTime:             endTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsAvailable:         r.IsAvailable,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *declareAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ID:                  resp.ID,
		MasterID:            resp.MasterID,
		Date:                resp.Date.Format(domain.DateFormat),
		StartTime:           resp.StartTime.String(),
		EndTime:             resp.EndTime.String(),
		SlotDurationMinutes: resp.SlotDurationMinutes,
		IsAvailable:         resp.IsAvailable,
		SlotsGenerated:      resp.SlotsGenerated,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}
