package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// ResourceRepository интерфейс чтения каталога ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AllocationRepository интерфейс чтения журнала распределений
type AllocationRepository interface {
	ListOverlapping(ctx context.Context, resourceID int64, interval domain.Interval) ([]domain.Allocation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// MetricsRecorder учёт результатов проверок
type MetricsRecorder interface {
	RecordAvailabilityCheck(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
