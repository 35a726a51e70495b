package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
)

// windowStartOn начало рабочего окна ресурса в день момента t (сетка слотов отсчитывается от него)
func windowStartOn(res *domain.Resource, t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return res.Window.Start.On(local.Year(), local.Month(), local.Day(), loc)
}

// nextBoundary ближайшая граница сетки windowStart + k*step строго после t
func nextBoundary(t, windowStart time.Time, step time.Duration) time.Time {
	offset := t.Sub(windowStart)
	if offset < 0 {
		return windowStart
	}
	return t.Add(step - offset%step)
}

// splitSlot разбивает интервал календаря по сетке ресурса.
// Первый и последний слоты могут быть короче шага, если интервал не попадает на сетку.
func splitSlot(slot availability.CalendarSlot, windowStart time.Time, step time.Duration) []availability.CalendarSlot {
	if step <= 0 {
		return []availability.CalendarSlot{slot}
	}

	out := make([]availability.CalendarSlot, 0, int(slot.Interval.Duration()/step)+2)
	for start := slot.Interval.Start; start.Before(slot.Interval.End); {
		end := nextBoundary(start, windowStart, step)
		if end.After(slot.Interval.End) {
			end = slot.Interval.End
		}
		part := slot
		part.Interval.Start = start
		part.Interval.End = end
		out = append(out, part)
		start = end
	}
	return out
}

// onGrid интервал начинается на границе сетки и длится целое число шагов
func onGrid(interval domain.Interval, windowStart time.Time, step time.Duration) bool {
	if step <= 0 {
		return false
	}
	offset := interval.Start.Sub(windowStart)
	return offset >= 0 && offset%step == 0 && interval.Duration()%step == 0
}

// isBookable возвращает true, если слот можно забронировать с учётом минимального срока
func isBookable(start, now time.Time, leadTimeDays int) bool {
	earliest := now.Add(time.Duration(leadTimeDays) * 24 * time.Hour)
	return !start.Before(earliest)
}
