package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/ledger"
)

// RequestRepository интерфейс для работы с заявками
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
	ListDue(ctx context.Context, statuses []domain.RequestStatus, now time.Time) ([]*domain.Request, error)
	Update(ctx context.Context, req *domain.Request) error
	Delete(ctx context.Context, id int64) error
	CreateExtension(ctx context.Context, ext *domain.Extension) (*domain.Extension, error)
	UpdateExtension(ctx context.Context, ext *domain.Extension) error
}

// ResourceRepository интерфейс чтения каталога
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AvailabilityChecker интерфейс движка доступности
type AvailabilityChecker interface {
	Precheck(res *domain.Resource, interval domain.Interval, quantity int, opts availability.Options) error
	CheckResource(ctx context.Context, res *domain.Resource, interval domain.Interval, quantity int, opts availability.Options) (*availability.Result, error)
}

// Ledger интерфейс журнала бронирований
type Ledger interface {
	Commit(ctx context.Context, claims []ledger.Claim) ([]domain.Allocation, error)
	Release(ctx context.Context, requestID int64) (int64, error)
	ListByRequest(ctx context.Context, requestID int64) ([]domain.Allocation, error)
}

// Billing интерфейс сверки оплат
type Billing interface {
	PaymentRequired(req *domain.Request) bool
	OpenPrimary(ctx context.Context, req *domain.Request) (*domain.Invoice, error)
	OpenSupplementary(ctx context.Context, req *domain.Request, ext *domain.Extension) (*domain.Invoice, error)
	CloseForCancellation(ctx context.Context, requestID int64) ([]*domain.Invoice, error)
	RequestRefunds(ctx context.Context, invoices []*domain.Invoice, reason string)
	HasPaidInvoices(ctx context.Context, requestID int64) (bool, error)
}

// Locker интерфейс блокировок по ключу
type Locker interface {
	TryLock(ctx context.Context, key string) (locker.Unlock, error)
	LockAll(ctx context.Context, keys []string) (locker.Unlock, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SequenceGenerator интерфейс генератора номеров
type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// EventEmitter интерфейс публикации событий
type EventEmitter interface {
	Emit(ctx context.Context, event domain.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// MetricsRecorder учёт переходов заявок
type MetricsRecorder interface {
	RecordTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
