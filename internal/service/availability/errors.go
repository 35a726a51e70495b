package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrInvalidQuantity возвращается при количестве вне диапазона 1..capacity
	ErrInvalidQuantity = fmt.Errorf("%w: invalid quantity", domain.ErrValidation)

	// ErrInvalidRange возвращается при некорректном периоде календаря
	ErrInvalidRange = fmt.Errorf("%w: invalid calendar range", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("availability: internal error")
)
