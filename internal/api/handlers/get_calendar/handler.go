package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	getCalendar "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_calendar"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidQuery      = "некорректные параметры: ожидаются from и to в формате RFC3339 или YYYY-MM-DD"
	msgInvalidRange      = "некорректный период календаря"
	msgNotFound          = "ресурс не найден"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/calendar?from=&to=&minQuantity=&split=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/calendar - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	req, err := ToUseCaseRequest(resourceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /resources/{id}/calendar - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/calendar - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/calendar - Invalid range: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error:   msgInvalidRange,
				Details: err.Error(),
			})

		default:
			h.logger.Error("GET /resources/{id}/calendar - Failed to build calendar: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/calendar - resource_id=%d, slots=%d", resourceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
