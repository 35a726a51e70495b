package resolve_extension

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	ApproveExtension(ctx context.Context, actor models.Actor, requestID, extensionID int64, message string) (*models.RequestResponse, error)
	RejectExtension(ctx context.Context, actor models.Actor, requestID, extensionID int64, message string) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
