package create_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "ресурс из заявки не найден"
)

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body CreateRequestBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateRequest(r.Context(), actor, body.ToServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrResourceNotFound):
			h.logger.Warn("POST /requests - Resource not found: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /requests - Rejected: user_id=%d, error=%v", actor.UserID, err)

		default:
			h.logger.Error("POST /requests - Failed to create request: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests - Request created: request_id=%d, number=%s, user_id=%d",
		result.ID, result.Number, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
