package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidQuery      = "некорректные параметры: ожидаются start и end в формате RFC3339 и целое quantity"
	msgNotFound          = "ресурс не найден"
)

type Handler struct {
	engine AvailabilityEngine
	logger Logger
}

func NewHandler(engine AvailabilityEngine, logger Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability?start=&end=&quantity=
// Проверка ничего не резервирует: ответ верен только на момент запроса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	q, err := parseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	response := newResponse(resourceID, q)

	result, err := h.engine.Check(r.Context(), resourceID, q.interval, q.quantity, availability.Options{})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAvailabilityConflict):
			// Отказ предварительной проверки - это ответ, а не ошибка запроса
			response.Reason = handlers.ReasonCode(err)
			handlers.RespondJSON(w, http.StatusOK, response)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("GET /resources/{id}/availability - Rejected: resource_id=%d, error=%v", resourceID, err)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to check: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response.fromResult(result)
	h.logger.Info("GET /resources/{id}/availability - resource_id=%d, available=%t", resourceID, response.Available)
	handlers.RespondJSON(w, http.StatusOK, response)
}
