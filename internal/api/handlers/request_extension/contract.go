package request_extension

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	RequestExtension(ctx context.Context, actor models.Actor, requestID int64, in models.ExtensionInput) (*models.ExtensionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
