package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// PaymentConfirmation уведомление о захвате платежа
type PaymentConfirmation struct {
	InvoiceID     int64
	PaidAmount    decimal.Decimal
	TransactionID string
	Status        domain.PaymentStatus
}

// ConfirmResult результат обработки платежа
type ConfirmResult struct {
	Invoice *domain.Invoice
	// Duplicate платёж с этим transaction id уже был учтён
	Duplicate bool
	// BecamePaid счёт перешёл в PAID этим платежом
	BecamePaid bool
}

// InvoiceResponse модель счёта для ответа API
type InvoiceResponse struct {
	ID              int64           `json:"id"`
	Number          string          `json:"number"`
	RequestID       int64           `json:"requestId"`
	ExtensionID     *int64          `json:"extensionId,omitempty"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	DueDate         time.Time       `json:"dueDate"`
	Status          string          `json:"status"`
	RefundRequested bool            `json:"refundRequested"`
}

// FromDomainInvoice конвертирует доменный счёт в модель ответа
func FromDomainInvoice(inv *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		RequestID:       inv.RequestID,
		ExtensionID:     inv.ExtensionID,
		Kind:            string(inv.Kind),
		Amount:          inv.Amount,
		PaidAmount:      inv.PaidAmount,
		DueDate:         inv.DueDate,
		Status:          string(inv.Status),
		RefundRequested: inv.RefundRequested,
	}
}

// FromDomainInvoiceList конвертирует список счетов
func FromDomainInvoiceList(invoices []*domain.Invoice) []*InvoiceResponse {
	out := make([]*InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, FromDomainInvoice(inv))
	}
	return out
}
