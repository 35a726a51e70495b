package delete_request

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	Delete(ctx context.Context, actor models.Actor, requestID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
