package notifier

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Publisher отправляет событие во внешний брокер
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder учёт неудачных отправок
type MetricsRecorder interface {
	RecordNotificationFailure(eventType string)
}
