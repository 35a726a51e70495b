package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Validate выполняет предварительные проверки без обращения к журналу
// Порядок: неактивный ресурс, интервал, количество, выравнивание, рабочее окно, минимальный срок
func Validate(res *domain.Resource, interval domain.Interval, quantity int, now time.Time, opts Options) error {
	if !res.Active {
		return fmt.Errorf("%w: resource id=%d", domain.ErrResourceInactive, res.ID)
	}

	if !interval.Valid() {
		return fmt.Errorf("%w: end %s is not after start %s", domain.ErrInvalidInterval,
			interval.End.Format(time.RFC3339), interval.Start.Format(time.RFC3339))
	}

	if capacity := res.Capacity(); quantity < 1 || quantity > capacity {
		return fmt.Errorf("%w: %d, allowed 1..%d", ErrInvalidQuantity, quantity, capacity)
	}

	loc, err := res.Window.Location()
	if err != nil {
		return fmt.Errorf("%w: resource id=%d timezone: %v", ErrInternal, res.ID, err)
	}

	if err := checkAlignment(res, interval, loc); err != nil {
		return err
	}

	if err := checkWindow(res, interval, loc); err != nil {
		return err
	}

	if !opts.SkipLeadTime && res.LeadTimeDays > 0 {
		earliest := now.Add(time.Duration(res.LeadTimeDays) * 24 * time.Hour)
		if interval.Start.Before(earliest) {
			return fmt.Errorf("%w: start %s is earlier than %s (%d days lead time)", domain.ErrInsufficientLeadTime,
				interval.Start.Format(time.RFC3339), earliest.Format(time.RFC3339), res.LeadTimeDays)
		}
	}

	return nil
}

// checkAlignment начало кратно шагу от начала окна, длительность кратна шагу
func checkAlignment(res *domain.Resource, interval domain.Interval, loc *time.Location) error {
	step := time.Duration(res.SlotGranularityMinutes) * time.Minute
	if step <= 0 {
		return fmt.Errorf("%w: resource id=%d has no slot granularity", ErrInternal, res.ID)
	}

	start := interval.Start.In(loc)
	windowStart := res.Window.Start.On(start.Year(), start.Month(), start.Day(), loc)
	if offset := start.Sub(windowStart); offset%step != 0 {
		return fmt.Errorf("%w: start %s is not on a %d-minute boundary from %s", domain.ErrMisalignedSlot,
			start.Format(domain.TimeFormat), res.SlotGranularityMinutes, res.Window.Start)
	}

	if interval.Duration()%step != 0 {
		return fmt.Errorf("%w: duration %s is not a multiple of %d minutes", domain.ErrMisalignedSlot,
			interval.Duration(), res.SlotGranularityMinutes)
	}

	return nil
}

// checkWindow каждая часть интервала, приходящаяся на календарный день, целиком внутри окна этого дня
func checkWindow(res *domain.Resource, interval domain.Interval, loc *time.Location) error {
	for _, day := range days(interval, loc) {
		part, ok := interval.Clip(day)
		if !ok {
			continue
		}
		window := dailyWindow(res, day.Start, loc)
		if part.Start.Before(window.Start) || part.End.After(window.End) {
			return fmt.Errorf("%w: %s %s-%s is outside %s-%s %s", domain.ErrOutsideOperatingWindow,
				part.Start.In(loc).Format(domain.DateFormat),
				part.Start.In(loc).Format(domain.TimeFormat), part.End.In(loc).Format(domain.TimeFormat),
				res.Window.Start, res.Window.End, loc)
		}
	}
	return nil
}

// days календарные сутки в поясе loc, которые пересекает интервал
func days(interval domain.Interval, loc *time.Location) []domain.Interval {
	start := interval.Start.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	var out []domain.Interval
	for day.Before(interval.End) {
		next := day.AddDate(0, 0, 1)
		out = append(out, domain.Interval{Start: day, End: next})
		day = next
	}
	return out
}

// dailyWindow рабочее окно ресурса в сутки, начинающиеся в midnight
func dailyWindow(res *domain.Resource, midnight time.Time, loc *time.Location) domain.Interval {
	d := midnight.In(loc)
	return domain.Interval{
		Start: res.Window.Start.On(d.Year(), d.Month(), d.Day(), loc),
		End:   res.Window.End.On(d.Year(), d.Month(), d.Day(), loc),
	}
}
