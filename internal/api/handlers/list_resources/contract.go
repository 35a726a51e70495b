package list_resources

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

type CatalogService interface {
	ListResources(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
