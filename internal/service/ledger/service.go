package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
)

// Service журнал бронирований: единственный источник истины о занятой ёмкости
// Commit и Release должны вызываться внутри транзакции, держащей блокировки затронутых ресурсов
type Service struct {
	allocationRepo AllocationRepository
	resourceRepo   ResourceRepository
	timeProvider   TimeProvider
	metrics        MetricsRecorder
	logger         Logger
}

// NewService создает новый экземпляр журнала
func NewService(
	allocationRepo AllocationRepository,
	resourceRepo ResourceRepository,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		allocationRepo: allocationRepo,
		resourceRepo:   resourceRepo,
		timeProvider:   clock.Real(),
		metrics:        metrics,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Commit атомарно записывает набор распределений.
// Перед записью ёмкость перепроверяется по каждому ресурсу с учётом уже принятых строк того же набора.
// При нехватке хотя бы по одной строке ничего не пишется и возвращается *domain.AvailabilityError.
func (s *Service) Commit(ctx context.Context, claims []Claim) ([]domain.Allocation, error) {
	if len(claims) == 0 {
		return nil, ErrEmptyClaims
	}

	// 1. Группируем строки по ресурсам, порядок ресурсов детерминирован
	byResource := make(map[int64][]Claim)
	for _, c := range claims {
		byResource[c.ResourceID] = append(byResource[c.ResourceID], c)
	}
	resourceIDs := make([]int64, 0, len(byResource))
	for id := range byResource {
		resourceIDs = append(resourceIDs, id)
	}
	slices.Sort(resourceIDs)

	// 2. Проверяем ёмкость каждого ресурса
	conflicts := &domain.AvailabilityError{}
	for _, resourceID := range resourceIDs {
		if err := s.verifyResource(ctx, resourceID, byResource[resourceID], conflicts); err != nil {
			return nil, err
		}
	}

	if !conflicts.Empty() {
		if s.metrics != nil {
			s.metrics.RecordLedgerConflict()
		}
		s.logger.Warn("Commit: rejected %d claims, %d conflicting lines", len(claims), len(conflicts.Items))
		return nil, conflicts
	}

	// 3. Записываем набор целиком
	allocs := make([]domain.Allocation, 0, len(claims))
	for _, c := range claims {
		allocs = append(allocs, c.allocation())
	}
	created, err := s.allocationRepo.CreateBatch(ctx, allocs)
	if err != nil {
		s.logger.Error("Commit: failed to create allocations: %v", err)
		return nil, fmt.Errorf("%w: Commit - create batch: %v", ErrInternal, err)
	}

	return created, nil
}

func (s *Service) verifyResource(ctx context.Context, resourceID int64, claims []Claim, conflicts *domain.AvailabilityError) error {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return fmt.Errorf("%w: id=%d", ErrResourceNotFound, resourceID)
		}
		s.logger.Error("Commit: failed to get resource id=%d: %v", resourceID, err)
		return fmt.Errorf("%w: Commit - get resource: %v", ErrInternal, err)
	}

	if !res.Active {
		for _, c := range claims {
			conflicts.Add(domain.LineConflict{LineItemID: c.LineItemID, ResourceID: resourceID, Reason: domain.ErrResourceInactive})
		}
		return nil
	}

	intervals := make([]domain.Interval, 0, len(claims))
	for _, c := range claims {
		intervals = append(intervals, c.Interval)
	}
	existing, err := s.allocationRepo.ListOverlapping(ctx, resourceID, domain.BoundingBox(intervals...))
	if err != nil {
		s.logger.Error("Commit: failed to list allocations for resource id=%d: %v", resourceID, err)
		return fmt.Errorf("%w: Commit - list allocations: %v", ErrInternal, err)
	}

	capacity := res.Capacity()
	for _, c := range claims {
		ok, blocking := domain.CheckCapacity(existing, c.Interval, c.Quantity, capacity)
		if !ok {
			conflicts.Add(domain.LineConflict{
				LineItemID: c.LineItemID,
				ResourceID: resourceID,
				Reason:     domain.ErrInsufficientCapacity,
				Conflicts:  blocking,
			})
			continue
		}
		existing = append(existing, c.allocation())
	}

	return nil
}

// Release освобождает все занимающие распределения заявки, повторный вызов ничего не меняет
func (s *Service) Release(ctx context.Context, requestID int64) (int64, error) {
	released, err := s.allocationRepo.ReleaseByRequest(ctx, requestID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("Release: failed to release allocations of request id=%d: %v", requestID, err)
		return 0, fmt.Errorf("%w: Release - release: %v", ErrInternal, err)
	}
	return released, nil
}

// Query возвращает занимающие ёмкость распределения ресурса, пересекающиеся с интервалом
func (s *Service) Query(ctx context.Context, resourceID int64, interval domain.Interval) ([]domain.Allocation, error) {
	if !interval.Valid() {
		return nil, domain.ErrInvalidInterval
	}
	allocs, err := s.allocationRepo.ListOverlapping(ctx, resourceID, interval)
	if err != nil {
		s.logger.Error("Query: failed to list allocations for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Query - list allocations: %v", ErrInternal, err)
	}
	return allocs, nil
}

// ListByRequest возвращает все распределения заявки, включая освобождённые
func (s *Service) ListByRequest(ctx context.Context, requestID int64) ([]domain.Allocation, error) {
	allocs, err := s.allocationRepo.ListByRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("ListByRequest: failed to list allocations of request id=%d: %v", requestID, err)
		return nil, fmt.Errorf("%w: ListByRequest - list: %v", ErrInternal, err)
	}
	return allocs, nil
}
