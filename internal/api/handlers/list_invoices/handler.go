package list_invoices

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
)

type Handler struct {
	requests LifecycleService
	billing  BillingService
	logger   Logger
}

func NewHandler(requests LifecycleService, billing BillingService, logger Logger) *Handler {
	return &Handler{
		requests: requests,
		billing:  billing,
		logger:   logger,
	}
}

// Handle GET /api/v1/requests/{requestId}/invoices
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, err := handlers.PathID(r, "requestId")
	if err != nil {
		h.logger.Warn("GET /requests/{id}/invoices - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Права доступа к счетам совпадают с правами на заявку
	if _, err := h.requests.GetRequest(r.Context(), actor, requestID); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, lifecycle.ErrAccessDenied):
			h.logger.Warn("GET /requests/{id}/invoices - Access denied: request_id=%d, user_id=%d", requestID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /requests/{id}/invoices - Failed to get request: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	invoices, err := h.billing.ListInvoices(r.Context(), requestID)
	if err != nil {
		h.logger.Error("GET /requests/{id}/invoices - Failed to list invoices: request_id=%d, error=%v", requestID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, invoices)
}
