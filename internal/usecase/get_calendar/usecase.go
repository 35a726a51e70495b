package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
)

// UseCase use case для получения календаря доступности ресурса
type UseCase struct {
	resourceRepo ResourceRepository
	engine       CalendarEngine
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	engine CalendarEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		engine:       engine,
		timeProvider: clock.Real(),
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: resource=%d, from=%s, to=%s",
		req.ResourceID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем ресурс
	res, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetCalendar: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetCalendar: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !res.Active {
		uc.logger.Warn("GetCalendar: resource id=%d is inactive", req.ResourceID)
		return nil, ErrResourceNotFound
	}

	// 3. Получаем интервалы с остатком ёмкости
	seq, err := uc.engine.Calendar(ctx, res.ID, req.From, req.To)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		uc.logger.Error("GetCalendar: failed to build calendar for resource id=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: failed to build calendar: %v", ErrInternal, err)
	}

	// 4. Разбиваем на слоты по сетке ресурса и фильтруем
	loc, err := res.Window.Location()
	if err != nil {
		uc.logger.Error("GetCalendar: resource id=%d has invalid timezone: %v", res.ID, err)
		return nil, fmt.Errorf("%w: invalid timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now()
	step := time.Duration(res.SlotGranularityMinutes) * time.Minute

	slots := make([]Slot, 0)
	for segment := range seq {
		windowStart := windowStartOn(res, segment.Interval.Start, loc)
		parts := []availability.CalendarSlot{segment}
		if req.Split {
			parts = splitSlot(segment, windowStart, step)
		}
		for _, p := range parts {
			if req.MinQuantity > 0 && p.RemainingCapacity < req.MinQuantity {
				continue
			}
			slots = append(slots, Slot{
				Start:             p.Interval.Start,
				End:               p.Interval.End,
				RemainingCapacity: p.RemainingCapacity,
				Bookable: p.RemainingCapacity > 0 &&
					onGrid(p.Interval, windowStart, step) &&
					isBookable(p.Interval.Start, now, res.LeadTimeDays),
			})
		}
	}

	uc.logger.Info("GetCalendar: %d slots for resource=%d", len(slots), res.ID)

	return &Response{
		ResourceID:      res.ID,
		Timezone:        res.Window.Timezone,
		Capacity:        res.Capacity(),
		SlotGranularity: res.SlotGranularityMinutes,
		Slots:           slots,
	}, nil
}
