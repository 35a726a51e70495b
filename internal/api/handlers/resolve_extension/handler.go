package resolve_extension

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidExtensionID = "некорректный ID продления"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка или продление не найдены"
	msgForbidden          = "доступ запрещен"
	msgAlreadyResolved    = "по продлению уже принято решение"
)

type resolveFunc func(ctx context.Context, actor models.Actor, requestID, extensionID int64, message string) (*models.RequestResponse, error)

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

// Approve POST /api/v1/requests/{requestId}/extensions/{extensionId}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "approve", h.service.ApproveExtension)
}

// Reject POST /api/v1/requests/{requestId}/extensions/{extensionId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "reject", h.service.RejectExtension)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action string, fn resolveFunc) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Invalid request ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}
	extensionID, err := handlers.PathID(r, "extensionId")
	if err != nil {
		h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Invalid extension ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidExtensionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body ResolveBody
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := fn(r.Context(), actor, requestID, extensionID, body.Message)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrRequestNotFound), errors.Is(err, lifecycle.ErrExtensionNotFound):
			h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Not found: request_id=%d, extension_id=%d",
				action, requestID, extensionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Access denied: user_id=%d", action, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrExtensionResolved):
			h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Already resolved: extension_id=%d", action, extensionID)
			handlers.RespondConflict(w, msgAlreadyResolved)

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /requests/{id}/extensions/{extId}/%s - Rejected: request_id=%d, error=%v", action, requestID, err)

		default:
			h.logger.Error("POST /requests/{id}/extensions/{extId}/%s - Failed: request_id=%d, extension_id=%d, error=%v",
				action, requestID, extensionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests/{id}/extensions/{extId}/%s - request_id=%d, extension_id=%d, user_id=%d",
		action, requestID, extensionID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
