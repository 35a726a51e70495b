package list_requests

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	ListRequests(ctx context.Context, actor models.Actor, in models.ListFilter) (*models.RequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
