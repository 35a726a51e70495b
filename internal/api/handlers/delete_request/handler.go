package delete_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
)

const (
	msgInvalidRequestID = "некорректный ID заявки"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "заявка не найдена"
	msgForbidden        = "доступ запрещен"
	msgCannotDelete     = "заявку нельзя удалить: она занимает ресурсы или по ней есть оплата"
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

// Handle DELETE /api/v1/requests/{requestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("DELETE /requests/{id} - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Delete(r.Context(), actor, requestID)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrRequestNotFound):
			h.logger.Warn("DELETE /requests/{id} - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("DELETE /requests/{id} - Access denied: request_id=%d, user_id=%d", requestID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrCannotDelete):
			h.logger.Warn("DELETE /requests/{id} - Cannot delete: request_id=%d, error=%v", requestID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCannotDelete)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("DELETE /requests/{id} - Rejected: request_id=%d, error=%v", requestID, err)

		default:
			h.logger.Error("DELETE /requests/{id} - Failed to delete request: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /requests/{id} - Request deleted: request_id=%d, user_id=%d", requestID, actor.UserID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
