package list_invoices

import (
	"context"

	billingModels "github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
)

type LifecycleService interface {
	GetRequest(ctx context.Context, actor models.Actor, id int64) (*models.RequestResponse, error)
}

type BillingService interface {
	ListInvoices(ctx context.Context, requestID int64) ([]*billingModels.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
