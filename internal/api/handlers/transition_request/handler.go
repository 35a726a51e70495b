package transition_request

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

const (
	msgInvalidRequestID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "заявка не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "переход недоступен в текущем статусе заявки"
)

type transitionFunc func(ctx context.Context, actor models.Actor, requestID int64, r *http.Request) (*models.RequestResponse, error)

// Handler переходы статуса заявки: submit, review, approve, reject, cancel
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

// Submit POST /api/v1/requests/{requestId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "submit", func(ctx context.Context, actor models.Actor, id int64, _ *http.Request) (*models.RequestResponse, error) {
		return h.service.Submit(ctx, actor, id)
	})
}

// Review POST /api/v1/requests/{requestId}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "review", func(ctx context.Context, actor models.Actor, id int64, _ *http.Request) (*models.RequestResponse, error) {
		return h.service.BeginReview(ctx, actor, id)
	})
}

// Approve POST /api/v1/requests/{requestId}/approve {note}
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "approve", func(ctx context.Context, actor models.Actor, id int64, r *http.Request) (*models.RequestResponse, error) {
		var body ApproveBody
		if err := decodeOptional(r, &body); err != nil {
			return nil, errBadBody
		}
		return h.service.Approve(ctx, actor, id, body.Note)
	})
}

// Reject POST /api/v1/requests/{requestId}/reject {reason}
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "reject", func(ctx context.Context, actor models.Actor, id int64, r *http.Request) (*models.RequestResponse, error) {
		var body ReasonBody
		if err := decodeOptional(r, &body); err != nil {
			return nil, errBadBody
		}
		return h.service.Reject(ctx, actor, id, body.Reason)
	})
}

// Cancel POST /api/v1/requests/{requestId}/cancel {reason}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "cancel", func(ctx context.Context, actor models.Actor, id int64, r *http.Request) (*models.RequestResponse, error) {
		var body ReasonBody
		if err := decodeOptional(r, &body); err != nil {
			return nil, errBadBody
		}
		return h.service.Cancel(ctx, actor, id, body.Reason)
	})
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("POST /requests/{id}/%s - Invalid request ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := fn(r.Context(), actor, requestID, r)
	if err != nil {
		switch {
		case errors.Is(err, errBadBody):
			h.logger.Warn("POST /requests/{id}/%s - Invalid request body: request_id=%d", action, requestID)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, lifecycle.ErrRequestNotFound):
			h.logger.Warn("POST /requests/{id}/%s - Request not found: request_id=%d", action, requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("POST /requests/{id}/%s - Access denied: request_id=%d, user_id=%d", action, requestID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			h.logger.Warn("POST /requests/{id}/%s - Invalid transition: request_id=%d, error=%v", action, requestID, err)
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, handlers.ErrorResponse{
				Error:   msgInvalidTransition,
				Details: err.Error(),
			})

		case handlers.RespondDomainError(w, err):
			h.logger.Warn("POST /requests/{id}/%s - Rejected: request_id=%d, error=%v", action, requestID, err)

		default:
			h.logger.Error("POST /requests/{id}/%s - Failed: request_id=%d, error=%v", action, requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /requests/{id}/%s - request_id=%d, status=%s, user_id=%d",
		action, requestID, result.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
