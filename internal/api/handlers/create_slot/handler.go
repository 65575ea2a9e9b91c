package create_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/service/slots"
	"github.com/salonmarket/booking-service/internal/service/slots/models"
)

const (
	msgInvalidMasterID     = "некорректный ID мастера"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgTimeConflict        = "слот пересекается с существующим слотом или бронированием"
	msgInvalidTimeRange    = "начало слота должно быть раньше конца"
	msgInvalidSlotDuration = "некорректная длительность слота"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/masters/{masterId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /masters/{id}/slots - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /masters/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), masterID, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrTimeConflict):
			h.logger.Warn("POST /masters/{id}/slots - Time conflict: master_id=%d", masterID)
			handlers.RespondConflict(w, msgTimeConflict)

		case errors.Is(err, slots.ErrInvalidTimeRange):
			h.logger.Warn("POST /masters/{id}/slots - Invalid time range: master_id=%d", masterID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, slots.ErrInvalidSlotDuration):
			h.logger.Warn("POST /masters/{id}/slots - Invalid slot duration: master_id=%d", masterID)
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		default:
			h.logger.Error("POST /masters/{id}/slots - Failed to create slot: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/{id}/slots - Slot created: slot_id=%d, master_id=%d", result.ID, masterID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
