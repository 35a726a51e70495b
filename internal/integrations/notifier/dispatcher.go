package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// DispatcherConfig параметры повторной отправки
type DispatcherConfig struct {
	RetryInterval time.Duration
	MaxRetries    int
	QueueSize     int
}

type pending struct {
	event    domain.Event
	attempts int
}

// Dispatcher отправляет события и повторяет неудачные отправки в фоне
// Ошибка отправки никогда не возвращается вызывающему: переход состояния уже зафиксирован
type Dispatcher struct {
	publisher Publisher
	cfg       DispatcherConfig
	logger    Logger
	metrics   MetricsRecorder
	now       func() time.Time

	mu    sync.Mutex
	queue []pending
}

// NewDispatcher создает диспетчер событий
func NewDispatcher(publisher Publisher, cfg DispatcherConfig, logger Logger, metrics MetricsRecorder) *Dispatcher {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	return &Dispatcher{
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Emit публикует событие; при ошибке ставит его в очередь повторной отправки
func (d *Dispatcher) Emit(ctx context.Context, event domain.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = d.now()
	}

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warn("Emit: failed to publish %s for request=%d, queued for retry: %v", event.Type, event.RequestID, err)
		d.recordFailure(event)
		d.enqueue(pending{event: event, attempts: 1})
	}
}

// Run повторяет отправку из очереди до отмены контекста
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if n := d.Pending(); n > 0 {
				d.logger.Warn("Dispatcher: stopped with %d undelivered events", n)
			}
			return
		case <-ticker.C:
			d.RetryPending(ctx)
		}
	}
}

// RetryPending делает одну попытку отправки каждого события из очереди
func (d *Dispatcher) RetryPending(ctx context.Context) {
	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, p := range batch {
		if err := d.publisher.Publish(ctx, p.event); err != nil {
			p.attempts++
			d.recordFailure(p.event)
			if p.attempts > d.cfg.MaxRetries {
				d.logger.Error("Dispatcher: dropping event %s id=%s for request=%d after %d attempts: %v",
					p.event.Type, p.event.ID, p.event.RequestID, p.attempts, err)
				continue
			}
			d.enqueue(p)
			continue
		}
		d.logger.Info("Dispatcher: delivered event %s id=%s after %d attempts", p.event.Type, p.event.ID, p.attempts+1)
	}
}

// Pending количество событий в очереди повторной отправки
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Dispatcher) enqueue(p pending) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) >= d.cfg.QueueSize {
		d.logger.Error("Dispatcher: retry queue is full, dropping event %s id=%s for request=%d",
			p.event.Type, p.event.ID, p.event.RequestID)
		return
	}
	d.queue = append(d.queue, p)
}

func (d *Dispatcher) recordFailure(event domain.Event) {
	if d.metrics != nil {
		d.metrics.RecordNotificationFailure(string(event.Type))
	}
}
