package list_resources

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog/models"
)

const (
	msgInvalidSiteID = "некорректный ID площадки"
	msgInvalidKind   = "некорректный тип ресурса, ожидается lab, component или staff"
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

// Handle GET /api/v1/resources?siteId=&kind=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter domain.ResourceFilter

	if v := query.Get("siteId"); v != "" {
		siteID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.logger.Warn("GET /resources - Invalid site ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSiteID)
			return
		}
		filter.SiteID = &siteID
	}

	if v := query.Get("kind"); v != "" {
		kind := domain.ResourceKind(v)
		if !kind.Valid() {
			h.logger.Warn("GET /resources - Invalid kind: %s", v)
			handlers.RespondBadRequest(w, msgInvalidKind)
			return
		}
		filter.Kind = &kind
	}

	filter.IncludeInactive = query.Get("includeInactive") == "true"

	resources, err := h.service.ListResources(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /resources - Failed to list resources: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources - Resources retrieved: count=%d", len(resources))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainResourceList(resources))
}
