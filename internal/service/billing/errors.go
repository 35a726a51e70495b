package billing

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrInvoiceNotFound возвращается, когда счёт не найден
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", domain.ErrNotFound)

	// ErrInvalidPayment возвращается при некорректных данных платежа
	ErrInvalidPayment = fmt.Errorf("%w: invalid payment", domain.ErrValidation)

	// ErrInvoiceClosed возвращается при оплате отменённого счёта
	ErrInvoiceClosed = fmt.Errorf("%w: invoice is cancelled", domain.ErrState)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("billing: internal error")
)
