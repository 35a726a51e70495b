package check_availability

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
)

type AvailabilityEngine interface {
	Check(ctx context.Context, resourceID int64, interval domain.Interval, quantity int, opts availability.Options) (*availability.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
