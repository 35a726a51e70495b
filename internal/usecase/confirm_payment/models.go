package confirm_payment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
)

// Request уведомление платёжного шлюза о захвате
type Request struct {
	InvoiceID     int64
	PaidAmount    decimal.Decimal
	TransactionID string
	Status        string // captured | failed
}

// Response результат обработки уведомления
type Response struct {
	Invoice       *models.InvoiceResponse
	Duplicate     bool
	RequestStatus *string // Статус заявки, если оплата перевела её дальше
}
