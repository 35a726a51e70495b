package get_calendar

import (
	"context"
	"iter"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
)

// ResourceRepository интерфейс чтения каталога
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// CalendarEngine интерфейс движка доступности
type CalendarEngine interface {
	Calendar(ctx context.Context, resourceID int64, from, to time.Time) (iter.Seq[availability.CalendarSlot], error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
