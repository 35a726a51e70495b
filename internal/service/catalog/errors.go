package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных данных ресурса
	ErrInvalidInput = fmt.Errorf("%w: invalid resource data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
