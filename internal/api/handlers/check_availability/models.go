package check_availability

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID int64                   `json:"resourceId"`
	Start      time.Time               `json:"start"`
	End        time.Time               `json:"end"`
	Quantity   int                     `json:"quantity"`
	Available  bool                    `json:"available"`
	Reason     string                  `json:"reason,omitempty"`
	Conflicts  []handlers.ConflictItem `json:"conflicts,omitempty"`
}

type query struct {
	interval domain.Interval
	quantity int
}

// parseQuery разбирает start, end (RFC3339) и quantity (по умолчанию 1)
func parseQuery(values url.Values) (*query, error) {
	start, err := time.Parse(time.RFC3339, values.Get("start"))
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, values.Get("end"))
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	quantity := 1
	if v := values.Get("quantity"); v != "" {
		quantity, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
	}

	return &query{interval: domain.Interval{Start: start, End: end}, quantity: quantity}, nil
}

func newResponse(resourceID int64, q *query) *AvailabilityResponse {
	return &AvailabilityResponse{
		ResourceID: resourceID,
		Start:      q.interval.Start,
		End:        q.interval.End,
		Quantity:   q.quantity,
	}
}

// fromResult заполняет ответ по результату проверки ёмкости
func (r *AvailabilityResponse) fromResult(result *availability.Result) {
	r.Available = result.Available
	if result.Available {
		return
	}
	r.Reason = handlers.ReasonCode(result.Reason)
	for _, alloc := range result.Conflicts {
		r.Conflicts = append(r.Conflicts, handlers.AllocationItem(0, r.Reason, alloc))
	}
}
