package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	requestRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/request"
)

// RequestRepository заявки в памяти
type RequestRepository struct {
	s *Store
}

// Create создает заявку вместе с позициями
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	r.s.write(ctx, func(st *state) {
		req.ID = st.nextID()
		req.Version = 1
		req.CreatedAt = r.s.now()
		req.UpdatedAt = req.CreatedAt
		for i := range req.LineItems {
			req.LineItems[i].ID = st.nextID()
			req.LineItems[i].RequestID = req.ID
		}
		st.requests[req.ID] = copyRequest(*req)
	})
	return req, nil
}

// GetByID получает заявку с позициями и продлениями
func (r *RequestRepository) GetByID(_ context.Context, id int64) (*domain.Request, error) {
	var (
		req domain.Request
		ok  bool
	)
	r.s.read(func(st *state) {
		req, ok = st.requests[id]
		if ok {
			req = copyRequest(req)
		}
	})
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	return &req, nil
}

// List получает заявки с фильтрацией
func (r *RequestRepository) List(_ context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	out := make([]*domain.Request, 0)
	r.s.read(func(st *state) {
		for _, req := range st.requests {
			if !matches(req, filter) {
				continue
			}
			req := copyRequest(req)
			out = append(out, &req)
		}
	})
	slices.SortFunc(out, func(a, b *domain.Request) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareID(b.ID, a.ID)
	})
	return out, nil
}

// ListDue получает заявки в указанных статусах с началом не позже now
func (r *RequestRepository) ListDue(_ context.Context, statuses []domain.RequestStatus, now time.Time) ([]*domain.Request, error) {
	out := make([]*domain.Request, 0)
	r.s.read(func(st *state) {
		for _, req := range st.requests {
			if !slices.Contains(statuses, req.Status) {
				continue
			}
			if req.ScheduledStart == nil || req.ScheduledStart.After(now) {
				continue
			}
			req := copyRequest(req)
			out = append(out, &req)
		}
	})
	slices.SortFunc(out, func(a, b *domain.Request) int {
		if c := a.ScheduledStart.Compare(*b.ScheduledStart); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return out, nil
}

// Update сохраняет заголовок заявки с проверкой версии
// Позиции и продления сохраняются отдельными методами, как и в PostgreSQL
func (r *RequestRepository) Update(ctx context.Context, req *domain.Request) error {
	var err error
	r.s.write(ctx, func(st *state) {
		stored, ok := st.requests[req.ID]
		if !ok || stored.Version != req.Version {
			err = requestRepo.ErrVersionConflict
			return
		}

		stored.Title = req.Title
		stored.Status = req.Status
		stored.LinesTotal = req.LinesTotal
		stored.ExtensionsTotal = req.ExtensionsTotal
		stored.Total = req.Total
		stored.ScheduledStart = req.ScheduledStart
		stored.ScheduledEnd = req.ScheduledEnd
		stored.PaymentRequired = req.PaymentRequired
		stored.ApprovalNote = req.ApprovalNote
		stored.RejectionReason = req.RejectionReason
		stored.CancellationReason = req.CancellationReason
		stored.Version++
		stored.UpdatedAt = r.s.now()
		st.requests[req.ID] = stored

		req.Version = stored.Version
		req.UpdatedAt = stored.UpdatedAt
	})
	return err
}

// Delete удаляет заявку и всё, что на неё ссылается
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	var err error
	r.s.write(ctx, func(st *state) {
		if _, ok := st.requests[id]; !ok {
			err = requestRepo.ErrRequestNotFound
			return
		}
		delete(st.requests, id)

		for allocID, a := range st.allocations {
			if a.RequestID == id {
				delete(st.allocations, allocID)
			}
		}
		for invID, inv := range st.invoices {
			if inv.RequestID != id {
				continue
			}
			delete(st.invoices, invID)
			for txID, p := range st.payments {
				if p.InvoiceID == invID {
					delete(st.payments, txID)
				}
			}
		}
	})
	return err
}

// CreateExtension сохраняет запрос на продление
func (r *RequestRepository) CreateExtension(ctx context.Context, ext *domain.Extension) (*domain.Extension, error) {
	var err error
	r.s.write(ctx, func(st *state) {
		stored, ok := st.requests[ext.RequestID]
		if !ok {
			err = requestRepo.ErrRequestNotFound
			return
		}
		ext.ID = st.nextID()
		ext.CreatedAt = r.s.now()
		stored.Extensions = append(slices.Clone(stored.Extensions), *ext)
		st.requests[ext.RequestID] = stored
	})
	if err != nil {
		return nil, err
	}
	return ext, nil
}

// UpdateExtension сохраняет решение по продлению
func (r *RequestRepository) UpdateExtension(ctx context.Context, ext *domain.Extension) error {
	err := requestRepo.ErrExtensionNotFound
	r.s.write(ctx, func(st *state) {
		stored, ok := st.requests[ext.RequestID]
		if !ok {
			return
		}
		extensions := slices.Clone(stored.Extensions)
		for i := range extensions {
			if extensions[i].ID != ext.ID {
				continue
			}
			extensions[i].Status = ext.Status
			extensions[i].AdminMessage = ext.AdminMessage
			extensions[i].DeltaAmount = ext.DeltaAmount
			extensions[i].ResolvedAt = ext.ResolvedAt
			stored.Extensions = extensions
			st.requests[ext.RequestID] = stored
			err = nil
			return
		}
	})
	return err
}

func matches(req domain.Request, filter domain.RequestFilter) bool {
	if filter.OrganizationID != nil && req.OrganizationID != *filter.OrganizationID {
		return false
	}
	if filter.RequestedBy != nil && req.RequestedBy != *filter.RequestedBy {
		return false
	}
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.StartsAfter != nil && (req.ScheduledStart == nil || req.ScheduledStart.Before(*filter.StartsAfter)) {
		return false
	}
	if filter.StartsBefore != nil && (req.ScheduledStart == nil || req.ScheduledStart.After(*filter.StartsBefore)) {
		return false
	}
	return true
}
