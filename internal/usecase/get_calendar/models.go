package get_calendar

import "time"

// Request модель запроса календаря ресурса
type Request struct {
	ResourceID  int64
	From        time.Time
	To          time.Time
	MinQuantity int  // Скрыть интервалы, где свободно меньше (0 - показывать все)
	Split       bool // Разбить интервалы на слоты по шагу ресурса
}

// Response модель ответа с календарём
type Response struct {
	ResourceID      int64
	Timezone        string
	Capacity        int
	SlotGranularity int
	Slots           []Slot
}

// Slot интервал внутри рабочего окна с остатком ёмкости
type Slot struct {
	Start             time.Time
	End               time.Time
	RemainingCapacity int
	Bookable          bool // Начало не раньше минимального срока бронирования
}
