package confirm_payment

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
	lifecycleModels "github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

// BillingService интерфейс сверки оплат
type BillingService interface {
	ConfirmPayment(ctx context.Context, in models.PaymentConfirmation) (*models.ConfirmResult, error)
}

// LifecycleService интерфейс менеджера жизненного цикла
type LifecycleService interface {
	MarkScheduled(ctx context.Context, requestID int64) (*lifecycleModels.RequestResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
