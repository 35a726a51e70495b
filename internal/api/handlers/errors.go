package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

const (
	msgValidation   = "некорректные данные запроса"
	msgNotAvailable = "запрошенная ёмкость недоступна"
	msgConcurrency  = "заявка изменена параллельным запросом, повторите попытку"
	msgState        = "операция недоступна в текущем статусе"
	msgNotFound     = "объект не найден"
)

// ConflictItem мешающее распределение или причина отказа по позиции
type ConflictItem struct {
	LineItemID   int64      `json:"lineItemId,omitempty"`
	ResourceID   int64      `json:"resourceId"`
	Reason       string     `json:"reason"`
	AllocationID int64      `json:"allocationId,omitempty"`
	RequestID    int64      `json:"requestId,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
}

// ReasonCode возвращает машинное имя причины недоступности
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return "invalid_interval"
	case errors.Is(err, domain.ErrMisalignedSlot):
		return "misaligned_slot"
	case errors.Is(err, domain.ErrOutsideOperatingWindow):
		return "outside_operating_window"
	case errors.Is(err, domain.ErrInsufficientLeadTime):
		return "insufficient_lead_time"
	case errors.Is(err, domain.ErrResourceInactive):
		return "resource_inactive"
	case errors.Is(err, domain.ErrInsufficientCapacity):
		return "insufficient_capacity"
	default:
		return ""
	}
}

// ConflictItems разворачивает ошибку доступности в список для ответа
func ConflictItems(err error) []ConflictItem {
	var availErr *domain.AvailabilityError
	if !errors.As(err, &availErr) {
		return nil
	}

	var items []ConflictItem
	for _, line := range availErr.Items {
		reason := ReasonCode(line.Reason)
		if len(line.Conflicts) == 0 {
			items = append(items, ConflictItem{LineItemID: line.LineItemID, ResourceID: line.ResourceID, Reason: reason})
			continue
		}
		for _, alloc := range line.Conflicts {
			items = append(items, AllocationItem(line.LineItemID, reason, alloc))
		}
	}
	return items
}

// AllocationItem описывает мешающее распределение
func AllocationItem(lineItemID int64, reason string, alloc domain.Allocation) ConflictItem {
	start, end := alloc.Interval.Start, alloc.Interval.End
	return ConflictItem{
		LineItemID:   lineItemID,
		ResourceID:   alloc.ResourceID,
		Reason:       reason,
		AllocationID: alloc.ID,
		RequestID:    alloc.RequestID,
		Start:        &start,
		End:          &end,
		Quantity:     alloc.Quantity,
	}
}

// RespondDomainError отвечает кодом, соответствующим категории ошибки ядра
// Возвращает false, если категория не распознана
func RespondDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrValidation):
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   msgValidation,
			Reason:  ReasonCode(err),
			Details: err.Error(),
		})

	case errors.Is(err, domain.ErrAvailabilityConflict):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:     msgNotAvailable,
			Reason:    ReasonCode(err),
			Details:   err.Error(),
			Conflicts: ConflictItems(err),
		})

	case errors.Is(err, domain.ErrConcurrencyConflict):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgConcurrency, Reason: "concurrency_conflict"})

	case errors.Is(err, domain.ErrState):
		RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: msgState, Details: err.Error()})

	case errors.Is(err, domain.ErrNotFound):
		RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: msgNotFound, Details: err.Error()})

	default:
		return false
	}
	return true
}
