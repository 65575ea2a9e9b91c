package withdraw_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/service/availability"
)

const (
	msgInvalidMasterID       = "некорректный ID мастера"
	msgInvalidAvailabilityID = "некорректный ID декларации доступности"
	msgNotFound              = "декларация доступности не найдена"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/masters/{masterId}/availability/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /masters/{id}/availability/{availabilityId} - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	availabilityID, err := strconv.ParseInt(vars["availabilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /masters/{id}/availability/{availabilityId} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	if err := h.service.Withdraw(r.Context(), availabilityID, masterID); err != nil {
		switch {
		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("DELETE /masters/{id}/availability/{availabilityId} - Not found: availability_id=%d, master_id=%d",
				availabilityID, masterID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /masters/{id}/availability/{availabilityId} - Failed to withdraw: availability_id=%d, error=%v",
				availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /masters/{id}/availability/{availabilityId} - Availability withdrawn: availability_id=%d, master_id=%d",
		availabilityID, masterID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
