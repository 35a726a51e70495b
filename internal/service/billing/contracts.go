package billing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/refundservice"
)

// InvoiceRepository интерфейс для работы со счетами
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*domain.Invoice, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}

// SequenceGenerator интерфейс генератора номеров
type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// RefundClient интерфейс клиента сервиса возвратов
type RefundClient interface {
	RequestRefund(ctx context.Context, refund refundservice.RefundRequest) (*refundservice.RefundResponse, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventEmitter интерфейс публикации событий
type EventEmitter interface {
	Emit(ctx context.Context, event domain.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// MetricsRecorder учёт статусов счетов
type MetricsRecorder interface {
	RecordInvoiceStatus(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
