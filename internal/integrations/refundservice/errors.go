package refundservice

import "errors"

var (
	// ErrInvoiceNotRefundable возвращается, когда сервис возвратов отказал в возврате по счёту
	ErrInvoiceNotRefundable = errors.New("refundservice client: invoice is not refundable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("refundservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("refundservice client: invalid response")
)
