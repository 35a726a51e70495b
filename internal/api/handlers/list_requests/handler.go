package list_requests

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidTime   = "некорректный формат времени, ожидается RFC3339"
	msgInvalidStatus = "неизвестный статус заявки"
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

// Handle GET /api/v1/requests?status=&startsAfter=&startsBefore=
// Клиент видит заявки своей организации, администратор - все
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	var filter models.ListFilter

	if v := query.Get("status"); v != "" {
		filter.Status = &v
	}
	for key, dst := range map[string]**time.Time{
		"startsAfter":  &filter.StartsAfter,
		"startsBefore": &filter.StartsBefore,
	} {
		v := query.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.logger.Warn("GET /requests - Invalid %s: %v", key, err)
			handlers.RespondBadRequest(w, msgInvalidTime)
			return
		}
		*dst = &t
	}

	result, err := h.service.ListRequests(r.Context(), actor, filter)
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidInput) {
			h.logger.Warn("GET /requests - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /requests - Failed to list requests: user_id=%d, error=%v", actor.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /requests - Requests retrieved: user_id=%d, count=%d", actor.UserID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
