package transition_request

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	Submit(ctx context.Context, actor models.Actor, requestID int64) (*models.RequestResponse, error)
	BeginReview(ctx context.Context, actor models.Actor, requestID int64) (*models.RequestResponse, error)
	Approve(ctx context.Context, actor models.Actor, requestID int64, note string) (*models.RequestResponse, error)
	Reject(ctx context.Context, actor models.Actor, requestID int64, reason string) (*models.RequestResponse, error)
	Cancel(ctx context.Context, actor models.Actor, requestID int64, reason string) (*models.RequestResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
