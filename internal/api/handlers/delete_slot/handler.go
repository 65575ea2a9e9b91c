package delete_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/service/slots"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgInvalidSlotID   = "некорректный ID слота"
	msgNotFound        = "слот не найден"
	msgSlotImmutable   = "забронированный слот нельзя удалить"
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

// Handle DELETE /api/v1/masters/{masterId}/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /masters/{id}/slots/{slotId} - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /masters/{id}/slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), slotID, masterID); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /masters/{id}/slots/{slotId} - Not found: slot_id=%d, master_id=%d",
				slotID, masterID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, slots.ErrSlotImmutable):
			h.logger.Warn("DELETE /masters/{id}/slots/{slotId} - Slot is booked: slot_id=%d", slotID)
			handlers.RespondUnprocessableEntity(w, msgSlotImmutable)

		default:
			h.logger.Error("DELETE /masters/{id}/slots/{slotId} - Failed to delete slot: slot_id=%d, error=%v",
				slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /masters/{id}/slots/{slotId} - Slot deleted: slot_id=%d, master_id=%d", slotID, masterID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
