package refundservice

import "github.com/shopspring/decimal"

// RefundRequest запрос на возврат оплаты по счёту
type RefundRequest struct {
	InvoiceID int64           `json:"invoiceId"`
	RequestID int64           `json:"requestId"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
}

// RefundResponse ответ сервиса возвратов
type RefundResponse struct {
	RefundID string `json:"refundId"`
	Status   string `json:"status"`
}

// ErrorResponse модель ошибки от сервиса возвратов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
