package get_request

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	GetRequest(ctx context.Context, actor models.Actor, id int64) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
