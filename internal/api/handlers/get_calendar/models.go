package get_calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	getCalendar "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	ResourceID      int64          `json:"resourceId"`
	Timezone        string         `json:"timezone"`
	Capacity        int            `json:"capacity"`
	SlotGranularity int            `json:"slotGranularityMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse интервал календаря
type SlotResponse struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	RemainingCapacity int       `json:"remainingCapacity"`
	Bookable          bool      `json:"bookable"`
}

// parseTime принимает RFC3339 или дату YYYY-MM-DD (полночь UTC)
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, value)
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(resourceID int64, values url.Values) (*getCalendar.Request, error) {
	from, err := parseTime(values.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := parseTime(values.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	req := &getCalendar.Request{
		ResourceID: resourceID,
		From:       from,
		To:         to,
		Split:      values.Get("split") == "true",
	}
	if v := values.Get("minQuantity"); v != "" {
		req.MinQuantity, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("minQuantity: %w", err)
		}
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			Start:             s.Start,
			End:               s.End,
			RemainingCapacity: s.RemainingCapacity,
			Bookable:          s.Bookable,
		}
	}
	return &CalendarResponse{
		ResourceID:      resp.ResourceID,
		Timezone:        resp.Timezone,
		Capacity:        resp.Capacity,
		SlotGranularity: resp.SlotGranularity,
		Slots:           slots,
	}
}
