package create_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidResource    = "некорректные данные ресурса"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources (только администратор)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	res, err := h.service.CreateResource(r.Context(), &req)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("POST /resources - Invalid resource: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error:   msgInvalidResource,
				Details: err.Error(),
			})
			return
		}
		h.logger.Error("POST /resources - Failed to create resource: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /resources - Resource created: resource_id=%d, kind=%s", res.ID, res.Kind)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainResource(res))
}
