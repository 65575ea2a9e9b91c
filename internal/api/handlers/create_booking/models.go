package create_booking

import (
	"time"

	createBooking "github.com/salonmarket/booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientID  int64   `json:"clientId"`
	MasterID  int64   `json:"masterId"`
	ServiceID int64   `json:"serviceId"`
	SlotID    *int64  `json:"slotId,omitempty"`
	StartTime string  `json:"startTime"`         // RFC 3339, например "2025-10-15T10:00:00Z"
	EndTime   *string `json:"endTime,omitempty"` // RFC 3339; пусто - из длительности услуги
	Comment   *string `json:"comment,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	ClientID    int64   `json:"clientId"`
	MasterID    int64   `json:"masterId"`
	ServiceID   int64   `json:"serviceId"`
	SlotID      *int64  `json:"slotId,omitempty"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Comment     *string `json:"comment,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		ClientID:  r.ClientID,
		MasterID:  r.MasterID,
		ServiceID: r.ServiceID,
		SlotID:    r.SlotID,
		StartTime: startTime,
		Comment:   r.Comment,
	}

	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ClientID:    resp.ClientID,
		MasterID:    resp.MasterID,
		ServiceID:   resp.ServiceID,
		SlotID:      resp.SlotID,
		StartTime:   resp.StartTime.Format(time.RFC3339),
		EndTime:     resp.EndTime.Format(time.RFC3339),
		Status:      resp.Status,
		ServiceName: resp.ServiceName,
		Price:       resp.Price,
		Comment:     resp.Comment,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
