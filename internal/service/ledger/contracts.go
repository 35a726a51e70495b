package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// AllocationRepository интерфейс для работы с журналом распределений
type AllocationRepository interface {
	CreateBatch(ctx context.Context, allocs []domain.Allocation) ([]domain.Allocation, error)
	ListOverlapping(ctx context.Context, resourceID int64, interval domain.Interval) ([]domain.Allocation, error)
	ListByRequest(ctx context.Context, requestID int64) ([]domain.Allocation, error)
	ReleaseByRequest(ctx context.Context, requestID int64, at time.Time) (int64, error)
}

// ResourceRepository интерфейс чтения ёмкости ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// MetricsRecorder учёт отклонённых коммитов
type MetricsRecorder interface {
	RecordLedgerConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
