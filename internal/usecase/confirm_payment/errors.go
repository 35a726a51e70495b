package confirm_payment

import (
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// ErrInvalidInput возвращается при некорректных входных данных
var ErrInvalidInput = fmt.Errorf("%w: confirm_payment: invalid input data", domain.ErrValidation)
