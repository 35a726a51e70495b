package payment_callback

import (
	"github.com/shopspring/decimal"

	billingModels "github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
	confirmPayment "github.com/m04kA/SMC-FacilityBooking/internal/usecase/confirm_payment"
)

// CallbackBody уведомление платёжного шлюза
type CallbackBody struct {
	InvoiceID     int64           `json:"invoiceId"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"` // captured | failed
}

// CallbackResponse HTTP response model
type CallbackResponse struct {
	Invoice       *billingModels.InvoiceResponse `json:"invoice"`
	Duplicate     bool                           `json:"duplicate"`
	RequestStatus *string                        `json:"requestStatus,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (b *CallbackBody) ToUseCaseRequest() *confirmPayment.Request {
	return &confirmPayment.Request{
		InvoiceID:     b.InvoiceID,
		PaidAmount:    b.PaidAmount,
		TransactionID: b.TransactionID,
		Status:        b.Status,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response) *CallbackResponse {
	return &CallbackResponse{
		Invoice:       resp.Invoice,
		Duplicate:     resp.Duplicate,
		RequestStatus: resp.RequestStatus,
	}
}
