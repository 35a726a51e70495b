package create_request

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	CreateRequest(ctx context.Context, actor models.Actor, in *models.CreateRequestInput) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
