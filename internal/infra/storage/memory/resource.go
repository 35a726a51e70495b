package memory

import (
	"context"
	"slices"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
)

// ResourceRepository каталог ресурсов в памяти
type ResourceRepository struct {
	s *Store
}

// Create добавляет ресурс в каталог
func (r *ResourceRepository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	r.s.write(ctx, func(st *state) {
		res.ID = st.nextID()
		res.CreatedAt = r.s.now()
		res.UpdatedAt = res.CreatedAt
		st.resources[res.ID] = *res
	})
	return res, nil
}

// GetByID получает ресурс по ID
func (r *ResourceRepository) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	var (
		res domain.Resource
		ok  bool
	)
	r.s.read(func(st *state) {
		res, ok = st.resources[id]
	})
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return &res, nil
}

// List получает ресурсы с фильтрацией
func (r *ResourceRepository) List(_ context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0)
	r.s.read(func(st *state) {
		for _, res := range st.resources {
			if filter.SiteID != nil && res.SiteID != *filter.SiteID {
				continue
			}
			if filter.Kind != nil && res.Kind != *filter.Kind {
				continue
			}
			if !filter.IncludeInactive && !res.Active {
				continue
			}
			res := res
			out = append(out, &res)
		}
	})
	slices.SortFunc(out, func(a, b *domain.Resource) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
