package list_availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	"github.com/salonmarket/booking-service/internal/domain"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgInvalidDate     = "некорректная дата, ожидается формат YYYY-MM-DD"
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

// Handle GET /api/v1/masters/{masterId}/availability?withSlots=true&date=2025-10-15
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /masters/{id}/availability - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	withSlots := r.URL.Query().Get("withSlots") == "true"

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /masters/{id}/availability - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = &parsed
	}

	if withSlots {
		result, err := h.service.ListWithSlots(r.Context(), masterID, date)
		if err != nil {
			h.logger.Error("GET /masters/{id}/availability - Failed to list with slots: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Info("GET /masters/{id}/availability - Listed %d declarations with slots: master_id=%d",
			len(result.Items), masterID)
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.service.List(r.Context(), masterID)
	if err != nil {
		h.logger.Error("GET /masters/{id}/availability - Failed to list: master_id=%d, error=%v", masterID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /masters/{id}/availability - Listed %d declarations: master_id=%d",
		len(result.Availabilities), masterID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
