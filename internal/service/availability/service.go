package availability

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
)

const (
	outcomeAvailable   = "available"
	outcomeUnavailable = "unavailable"
	outcomeRejected    = "rejected"
)

// Engine движок доступности: только чтение, повторные вызовы без новых коммитов дают тот же результат
type Engine struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	timeProvider   TimeProvider
	metrics        MetricsRecorder
	logger         Logger
}

// NewEngine создает новый экземпляр движка доступности
func NewEngine(
	resourceRepo ResourceRepository,
	allocationRepo AllocationRepository,
	metrics MetricsRecorder,
	logger Logger,
) *Engine {
	return &Engine{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		timeProvider:   clock.Real(),
		metrics:        metrics,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// Check проверяет, можно ли занять quantity единиц ресурса на интервал
// Ошибки предварительных проверок возвращаются как error; нехватка ёмкости - как Result.Available=false
func (e *Engine) Check(ctx context.Context, resourceID int64, interval domain.Interval, quantity int, opts Options) (*Result, error) {
	res, err := e.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		e.logger.Error("Check: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Check - get resource: %v", ErrInternal, err)
	}

	return e.CheckResource(ctx, res, interval, quantity, opts)
}

// Precheck выполняет только предварительные проверки, журнал не читается
func (e *Engine) Precheck(res *domain.Resource, interval domain.Interval, quantity int, opts Options) error {
	return Validate(res, interval, quantity, e.timeProvider.Now(), opts)
}

// CheckResource то же, что Check, для уже загруженного ресурса
// Внутри транзакции распределения читаются с блокировкой строк
func (e *Engine) CheckResource(ctx context.Context, res *domain.Resource, interval domain.Interval, quantity int, opts Options) (*Result, error) {
	if err := Validate(res, interval, quantity, e.timeProvider.Now(), opts); err != nil {
		e.record(outcomeRejected)
		return nil, err
	}

	allocs, err := e.allocationRepo.ListOverlapping(ctx, res.ID, interval)
	if err != nil {
		e.logger.Error("CheckResource: failed to list allocations for resource id=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: CheckResource - list allocations: %v", ErrInternal, err)
	}

	ok, conflicts := domain.CheckCapacity(allocs, interval, quantity, res.Capacity())
	if !ok {
		e.record(outcomeUnavailable)
		return &Result{
			Available: false,
			Reason:    domain.ErrInsufficientCapacity,
			Conflicts: conflicts,
			Resource:  res,
		}, nil
	}

	e.record(outcomeAvailable)
	return &Result{Available: true, Resource: res}, nil
}

// Calendar возвращает ленивую последовательность интервалов внутри рабочих окон ресурса за период [from, to)
// с остатком ёмкости на каждом. Данные журнала читаются один раз, последовательность можно обходить повторно.
func (e *Engine) Calendar(ctx context.Context, resourceID int64, from, to time.Time) (iter.Seq[CalendarSlot], error) {
	bounds := domain.Interval{Start: from, End: to}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: to must be after from", ErrInvalidRange)
	}
	if bounds.Duration() > domain.MaxCalendarRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, domain.MaxCalendarRangeDays)
	}

	res, err := e.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		e.logger.Error("Calendar: failed to get resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Calendar - get resource: %v", ErrInternal, err)
	}
	if !res.Active {
		return nil, fmt.Errorf("%w: resource id=%d", domain.ErrResourceInactive, res.ID)
	}

	loc, err := res.Window.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: resource id=%d timezone: %v", ErrInternal, res.ID, err)
	}

	allocs, err := e.allocationRepo.ListOverlapping(ctx, res.ID, bounds)
	if err != nil {
		e.logger.Error("Calendar: failed to list allocations for resource id=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: Calendar - list allocations: %v", ErrInternal, err)
	}

	capacity := res.Capacity()
	return func(yield func(CalendarSlot) bool) {
		for _, day := range days(bounds, loc) {
			window, ok := dailyWindow(res, day.Start, loc).Clip(bounds)
			if !ok {
				continue
			}
			for _, seg := range domain.Occupancy(allocs, window) {
				if !yield(CalendarSlot{Interval: seg.Interval, RemainingCapacity: max(capacity-seg.Used, 0)}) {
					return
				}
			}
		}
	}, nil
}

func (e *Engine) record(outcome string) {
	if e.metrics != nil {
		e.metrics.RecordAvailabilityCheck(outcome)
	}
}
