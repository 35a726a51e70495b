package request_extension

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка не найдена"
	msgForbidden          = "доступ запрещен"
	msgNotExtendable      = "заявку нельзя продлить"
	msgExtensionPending   = "по заявке уже есть продление на рассмотрении"
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

// Handle POST /api/v1/requests/{requestId}/extensions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /requests/{id}/extensions - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body ExtensionBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /requests/{id}/extensions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.RequestExtension(r.Context(), actor, requestID, body.ToServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrRequestNotFound):
			h.logger.Warn("POST /requests/{id}/extensions - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("POST /requests/{id}/extensions - Access denied: request_id=%d, user_id=%d", requestID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrNotExtendable):
			h.logger.Warn("POST /requests/{id}/extensions - Not extendable: request_id=%d, error=%v", requestID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotExtendable)

		case errors.Is(err, lifecycle.ErrExtensionPending):
			h.logger.Warn("POST /requests/{id}/extensions - Extension pending: request_id=%d", requestID)
			handlers.RespondConflict(w, msgExtensionPending)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /requests/{id}/extensions - Rejected: request_id=%d, error=%v", requestID, err)

		default:
			h.logger.Error("POST /requests/{id}/extensions - Failed: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests/{id}/extensions - Extension requested: request_id=%d, extension_id=%d, status=%s",
		requestID, result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
