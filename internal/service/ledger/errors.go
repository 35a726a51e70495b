package ledger

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrEmptyClaims возвращается при попытке закоммитить пустой набор
	ErrEmptyClaims = fmt.Errorf("%w: no claims to commit", domain.ErrValidation)

	// ErrResourceNotFound возвращается, когда ресурс из набора не найден
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("ledger: internal error")
)
