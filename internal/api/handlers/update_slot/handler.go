package update_slot

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
	msgInvalidSlotID       = "некорректный ID слота"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgNotFound            = "слот не найден"
	msgSlotImmutable       = "забронированный слот нельзя изменить"
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

// Handle PUT /api/v1/masters/{masterId}/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), slotID, masterID, &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Not found: slot_id=%d, master_id=%d",
				slotID, masterID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrSlotImmutable):
			h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Slot is booked: slot_id=%d", slotID)
			handlers.RespondUnprocessableEntity(w, msgSlotImmutable)

		case errors.Is(err, slots.ErrTimeConflict):
			h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Time conflict: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgTimeConflict)

		case errors.Is(err, slots.ErrInvalidTimeRange):
			h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Invalid time range: slot_id=%d", slotID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, slots.ErrInvalidSlotDuration):
			h.logger.Warn("PUT /masters/{id}/slots/{slotId} - Invalid slot duration: slot_id=%d", slotID)
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		default:
			h.logger.Error("PUT /masters/{id}/slots/{slotId} - Failed to update slot: slot_id=%d, error=%v",
				slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /masters/{id}/slots/{slotId} - Slot updated: slot_id=%d, master_id=%d", slotID, masterID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
