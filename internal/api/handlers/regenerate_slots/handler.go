package regenerate_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/domain"
	"github.com/salonmarket/booking-service/internal/service/availability"
)

const (
	msgInvalidMasterID  = "некорректный ID мастера"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound         = "декларация доступности не найдена"
	msgInvalidTimeRange = "некорректное рабочее окно декларации"
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

// Handle POST /api/v1/masters/{masterId}/availability/regenerate?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /masters/{id}/availability/regenerate - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("POST /masters/{id}/availability/regenerate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Regenerate(r.Context(), masterID, date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("POST /masters/{id}/availability/regenerate - Not found: master_id=%d, date=%s",
				masterID, date.Format(domain.DateFormat))
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrInvalidTimeRange), errors.Is(err, availability.ErrInvalidSlotDuration):
			h.logger.Warn("POST /masters/{id}/availability/regenerate - Invalid window: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("POST /masters/{id}/availability/regenerate - Failed: master_id=%d, error=%v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/{id}/availability/regenerate - Regenerated: master_id=%d, date=%s, deleted=%d, generated=%d",
		masterID, date.Format(domain.DateFormat), result.Deleted, result.Generated)
	handlers.RespondJSON(w, http.StatusOK, result)
}
