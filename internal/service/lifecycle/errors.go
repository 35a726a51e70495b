package lifecycle

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = fmt.Errorf("%w: request", domain.ErrNotFound)

	// ErrResourceNotFound возвращается, когда позиция ссылается на неизвестный ресурс
	ErrResourceNotFound = fmt.Errorf("%w: resource", domain.ErrNotFound)

	// ErrExtensionNotFound возвращается, когда продление не найдено
	ErrExtensionNotFound = fmt.Errorf("%w: extension", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("lifecycle: access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed", domain.ErrState)

	// ErrExtensionPending возвращается, когда у заявки уже есть ожидающее продление
	ErrExtensionPending = fmt.Errorf("%w: extension already pending", domain.ErrState)

	// ErrExtensionResolved возвращается при повторном решении по продлению
	ErrExtensionResolved = fmt.Errorf("%w: extension already resolved", domain.ErrState)

	// ErrNotExtendable возвращается, когда заявку нельзя продлить
	ErrNotExtendable = fmt.Errorf("%w: request cannot be extended", domain.ErrState)

	// ErrCannotDelete возвращается, когда заявку нельзя удалить
	ErrCannotDelete = fmt.Errorf("%w: request cannot be deleted", domain.ErrState)

	// ErrRequestBusy возвращается, когда заявку уже обрабатывает другая операция
	ErrRequestBusy = fmt.Errorf("%w: request is locked by another operation", domain.ErrConcurrencyConflict)

	// ErrLostRace возвращается, когда конкурентная запись выиграла гонку дважды подряд
	ErrLostRace = fmt.Errorf("%w: concurrent update", domain.ErrConcurrencyConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lifecycle: internal error")
)
