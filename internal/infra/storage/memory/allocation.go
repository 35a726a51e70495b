package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	allocationRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/allocation"
)

// AllocationRepository журнал распределений в памяти
type AllocationRepository struct {
	s *Store
}

// CreateBatch записывает набор распределений
func (r *AllocationRepository) CreateBatch(ctx context.Context, allocs []domain.Allocation) ([]domain.Allocation, error) {
	if len(allocs) == 0 {
		return nil, allocationRepo.ErrEmptyBatch
	}

	created := make([]domain.Allocation, len(allocs))
	r.s.write(ctx, func(st *state) {
		now := r.s.now()
		for i, a := range allocs {
			a.ID = st.nextID()
			a.CreatedAt = now
			a.UpdatedAt = now
			st.allocations[a.ID] = a
			created[i] = a
		}
	})
	return created, nil
}

// ListOverlapping получает занимающие ёмкость распределения ресурса, пересекающиеся с интервалом
func (r *AllocationRepository) ListOverlapping(_ context.Context, resourceID int64, interval domain.Interval) ([]domain.Allocation, error) {
	out := make([]domain.Allocation, 0)
	r.s.read(func(st *state) {
		for _, a := range st.allocations {
			if a.ResourceID == resourceID && a.Occupies() && a.Interval.Overlaps(interval) {
				out = append(out, a)
			}
		}
	})
	domain.SortAllocations(out)
	return out, nil
}

// ListByRequest получает все распределения заявки
func (r *AllocationRepository) ListByRequest(_ context.Context, requestID int64) ([]domain.Allocation, error) {
	out := make([]domain.Allocation, 0)
	r.s.read(func(st *state) {
		for _, a := range st.allocations {
			if a.RequestID == requestID {
				out = append(out, a)
			}
		}
	})
	domain.SortAllocations(out)
	return out, nil
}

// ReleaseByRequest освобождает занимающие распределения заявки
func (r *AllocationRepository) ReleaseByRequest(ctx context.Context, requestID int64, at time.Time) (int64, error) {
	var released int64
	r.s.write(ctx, func(st *state) {
		for id, a := range st.allocations {
			if a.RequestID != requestID || !a.Occupies() {
				continue
			}
			a.Status = domain.AllocationReleased
			a.UpdatedAt = at
			st.allocations[id] = a
			released++
		}
	})
	return released, nil
}
