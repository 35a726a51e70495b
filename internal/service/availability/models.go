package availability

import "github.com/m04kA/SMC-FacilityBooking/internal/domain"

// Options параметры проверки
type Options struct {
	// SkipLeadTime отключает проверку минимального срока (для продлений уже начатых бронирований)
	SkipLeadTime bool
}

// Result результат проверки доступности
// При нехватке ёмкости Available=false, Reason=domain.ErrInsufficientCapacity, Conflicts - мешающие распределения
type Result struct {
	Available bool
	Reason    error
	Conflicts []domain.Allocation
	Resource  *domain.Resource
}

// CalendarSlot непересекающийся интервал внутри рабочего окна с остатком ёмкости
type CalendarSlot struct {
	Interval          domain.Interval
	RemainingCapacity int
}
