package declare_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonmarket/booking-service/internal/api/handlers"
	declareAvailability "github.com/salonmarket/booking-service/internal/usecase/declare_availability"
)

const (
	msgInvalidMasterID     = "некорректный ID мастера"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMasterNotFound      = "мастер не найден"
	msgInvalidTimeRange    = "начало рабочего окна должно быть раньше конца"
	msgInvalidSlotDuration = "некорректная длительность слота"
)

type Handler struct {
	useCase DeclareAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase DeclareAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/masters/{masterId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	masterID, err := strconv.ParseInt(vars["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /masters/{id}/availability - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req DeclareAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /masters/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(masterID)
	if err != nil {
		h.logger.Warn("POST /masters/{id}/availability - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, declareAvailability.ErrMasterNotFound):
			h.logger.Warn("POST /masters/{id}/availability - Master not found: master_id=%d", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, declareAvailability.ErrInvalidTimeRange):
			h.logger.Warn("POST /masters/{id}/availability - Invalid time range: master_id=%d", masterID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, declareAvailability.ErrInvalidSlotDuration):
			h.logger.Warn("POST /masters/{id}/availability - Invalid slot duration: master_id=%d", masterID)
			handlers.RespondBadRequest(w, msgInvalidSlotDuration)

		case errors.Is(err, declareAvailability.ErrInvalidInput):
			h.logger.Warn("POST /masters/{id}/availability - Invalid input: master_id=%d, error=%v", masterID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /masters/{id}/availability - Failed to declare availability: master_id=%d, error=%v",
				masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/{id}/availability - Availability declared: availability_id=%d, master_id=%d, slots=%d",
		result.ID, masterID, result.SlotsGenerated)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
