package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/service/availability"
	"github.com/salonmarket/booking-service/internal/service/availability/models"
)

const (
	msgInvalidMasterID       = "некорректный ID мастера"
	msgInvalidAvailabilityID = "некорректный ID декларации доступности"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgNotFound              = "декларация доступности не найдена"
	msgInvalidTimeRange      = "начало рабочего окна должно быть раньше конца"
	msgInvalidSlotDuration   = "некорректная длительность слота"
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

// Handle PUT /api/v1/masters/{masterId}/availability/{availabilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	availabilityID, err := strconv.ParseInt(vars["availabilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Invalid availability ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAvailabilityID)
		return
	}

	var req models.UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), availabilityID, masterID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Not found: availability_id=%d, master_id=%d",
				availabilityID, masterID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Invalid time range: availability_id=%d",
				availabilityID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, availability.ErrInvalidSlotDuration):
			h.logger.Warn("PUT /masters/{id}/availability/{availabilityId} - Invalid slot duration: availability_id=%d",
				availabilityID)
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		default:
			h.logger.Error("PUT /masters/{id}/availability/{availabilityId} - Failed to update: availability_id=%d, error=%v",
				availabilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /masters/{id}/availability/{availabilityId} - Availability updated: availability_id=%d, master_id=%d",
		availabilityID, masterID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
