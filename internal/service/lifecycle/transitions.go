package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

// Submit отправляет черновик на рассмотрение
// Проверки доступности здесь предварительные: ёмкость не резервируется
func (s *Service) Submit(ctx context.Context, actor models.Actor, requestID int64) (*models.RequestResponse, error) {
	ch := &changes{}
	req, err := s.update(ctx, requestID, ch, func(txCtx context.Context, req *domain.Request) error {
		if err := checkAccess(actor, req); err != nil {
			return err
		}
		if err := ch.move(req, domain.StatusSubmitted); err != nil {
			return err
		}
		if err := s.precheckLines(txCtx, req.LineItems); err != nil {
			return err
		}
		ch.event(domain.EventRequestSubmitted, req, nil)
		return nil
	})
	if err != nil {
		s.logFailure("Submit", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	s.logger.Info("Submit: request %s submitted", req.Number)
	return models.FromDomainRequest(req), nil
}

// BeginReview отмечает начало рассмотрения заявки администратором
func (s *Service) BeginReview(ctx context.Context, actor models.Actor, requestID int64) (*models.RequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	ch := &changes{}
	req, err := s.update(ctx, requestID, ch, func(_ context.Context, req *domain.Request) error {
		if err := ch.move(req, domain.StatusUnderReview); err != nil {
			return err
		}
		ch.event(domain.EventRequestUnderReview, req, map[string]any{"reviewer": actor.UserID})
		return nil
	})
	if err != nil {
		s.logFailure("BeginReview", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	return models.FromDomainRequest(req), nil
}

// Approve одобряет заявку: все позиции перепроверяются под блокировками и
// резервируются одним пакетом, либо не резервируется ничего.
// Если оплата не требуется, заявка сразу переходит в SCHEDULED.
func (s *Service) Approve(ctx context.Context, actor models.Actor, requestID int64, note string) (*models.RequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	note, err := validateReason(note, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Approve: approving request id=%d by user=%d", requestID, actor.UserID)

	var (
		req *domain.Request
		ch  = &changes{}
	)
	err = s.guarded(ctx, requestID, "Approve", func(txCtx context.Context) error {
		ch.reset()

		// 1. Заявка под блокировкой строки
		var err error
		if req, err = s.load(txCtx, requestID); err != nil {
			return err
		}
		if err := ch.move(req, domain.StatusApproved); err != nil {
			return err
		}

		// 2. Повторная проверка каждой позиции
		if err := s.verifyLines(txCtx, req.LineItems, lineInterval, availabilityFull); err != nil {
			return err
		}

		// 3. Резервируем все позиции одним пакетом
		allocs, err := s.ledger.Commit(txCtx, claimsFor(req, req.LineItems, lineInterval, nil))
		if err != nil {
			return err
		}

		// 4. Расписание, счёт, статус
		req.SetSchedule(req.LinesInterval())
		if note != "" {
			req.ApprovalNote = ptr.Ptr(note)
		}
		req.PaymentRequired = s.billing.PaymentRequired(req)

		invoice, err := s.billing.OpenPrimary(txCtx, req)
		if err != nil {
			return err
		}

		ch.event(domain.EventRequestApproved, req, map[string]any{
			"allocations":    len(allocs),
			"total":          req.Total.StringFixed(2),
			"scheduledStart": req.ScheduledStart,
			"scheduledEnd":   req.ScheduledEnd,
		})
		if invoice != nil {
			ch.add(billing.IssuedEvent(invoice, s.timeProvider.Now()))
		}

		if !req.PaymentRequired {
			if err := ch.move(req, domain.StatusScheduled); err != nil {
				return err
			}
			ch.event(domain.EventRequestScheduled, req, nil)
		}

		return s.save(txCtx, req)
	})
	if err != nil {
		s.logFailure("Approve", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	s.logger.Info("Approve: request %s is %s, scheduled %s - %s", req.Number, req.Status,
		req.ScheduledStart.Format(time.RFC3339), req.ScheduledEnd.Format(time.RFC3339))
	return models.FromDomainRequest(req), nil
}

// Reject отклоняет заявку; ёмкость до одобрения не резервируется, освобождать нечего
func (s *Service) Reject(ctx context.Context, actor models.Actor, requestID int64, reason string) (*models.RequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reason, err := validateReason(reason, true)
	if err != nil {
		return nil, err
	}

	ch := &changes{}
	req, err := s.update(ctx, requestID, ch, func(_ context.Context, req *domain.Request) error {
		if err := ch.move(req, domain.StatusRejected); err != nil {
			return err
		}
		req.RejectionReason = ptr.Ptr(reason)
		ch.event(domain.EventRequestRejected, req, map[string]any{"reason": reason})
		return nil
	})
	if err != nil {
		s.logFailure("Reject", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	s.logger.Info("Reject: request %s rejected: %s", req.Number, reason)
	return models.FromDomainRequest(req), nil
}

// MarkScheduled переводит одобренную заявку в SCHEDULED после оплаты основного счёта
// Повторный вызов для уже запланированной заявки ничего не меняет
func (s *Service) MarkScheduled(ctx context.Context, requestID int64) (*models.RequestResponse, error) {
	current, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.StatusScheduled {
		return models.FromDomainRequest(current), nil
	}

	ch := &changes{}
	req, err := s.update(ctx, requestID, ch, func(_ context.Context, req *domain.Request) error {
		if err := ch.move(req, domain.StatusScheduled); err != nil {
			return err
		}
		ch.event(domain.EventRequestScheduled, req, nil)
		return nil
	})
	if err != nil {
		s.logFailure("MarkScheduled", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	return models.FromDomainRequest(req), nil
}

// Cancel отменяет одобренную или запланированную заявку:
// распределения освобождаются, неоплаченные счета отменяются, оплаченные уходят на возврат.
// Пока заявку держит одобрение или продление, отмена отклоняется конфликтом.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, requestID int64, reason string) (*models.RequestResponse, error) {
	reason, err := validateReason(reason, false)
	if err != nil {
		return nil, err
	}

	var (
		req     *domain.Request
		refunds []*domain.Invoice
		ch      = &changes{}
	)
	err = s.guarded(ctx, requestID, "Cancel", func(txCtx context.Context) error {
		ch.reset()

		// 1. Заявка и права
		var err error
		if req, err = s.load(txCtx, requestID); err != nil {
			return err
		}
		if err := checkAccess(actor, req); err != nil {
			return err
		}
		if err := ch.move(req, domain.StatusCancelled); err != nil {
			return err
		}

		// 2. Освобождаем ёмкость
		released, err := s.ledger.Release(txCtx, req.ID)
		if err != nil {
			return err
		}

		// 3. Счета
		if refunds, err = s.billing.CloseForCancellation(txCtx, req.ID); err != nil {
			return err
		}

		// 4. Ожидающее продление теряет смысл
		if err := s.dropPendingExtension(txCtx, req, "request cancelled", ch); err != nil {
			return err
		}

		if reason != "" {
			req.CancellationReason = ptr.Ptr(reason)
		}
		ch.event(domain.EventRequestCancelled, req, map[string]any{
			"reason":          reason,
			"released":        released,
			"refundsRequired": len(refunds),
		})
		return s.save(txCtx, req)
	})
	if err != nil {
		s.logFailure("Cancel", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	if len(refunds) > 0 {
		s.billing.RequestRefunds(ctx, refunds, reason)
	}
	s.logger.Info("Cancel: request %s cancelled by user=%d", req.Number, actor.UserID)
	return models.FromDomainRequest(req), nil
}

// Delete удаляет заявку без занятой ёмкости и без оплат
func (s *Service) Delete(ctx context.Context, actor models.Actor, requestID int64) error {
	var (
		deleted *domain.Request
		ch      = &changes{}
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		ch.reset()

		req, err := s.load(txCtx, requestID)
		if err != nil {
			return err
		}
		if err := checkAccess(actor, req); err != nil {
			return err
		}

		switch req.Status {
		case domain.StatusDraft, domain.StatusSubmitted, domain.StatusUnderReview,
			domain.StatusRejected, domain.StatusCancelled:
		default:
			return fmt.Errorf("%w: status %s", ErrCannotDelete, req.Status)
		}

		allocs, err := s.ledger.ListByRequest(txCtx, req.ID)
		if err != nil {
			return err
		}
		for _, a := range allocs {
			if a.Occupies() {
				return fmt.Errorf("%w: allocation id=%d is still %s", ErrCannotDelete, a.ID, a.Status)
			}
		}

		paid, err := s.billing.HasPaidInvoices(txCtx, req.ID)
		if err != nil {
			return err
		}
		if paid {
			return fmt.Errorf("%w: request has paid invoices", ErrCannotDelete)
		}

		if err := s.requestRepo.Delete(txCtx, req.ID); err != nil {
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		deleted = req
		ch.event(domain.EventRequestDeleted, req, nil)
		return nil
	})
	if err != nil {
		s.logFailure("Delete", requestID, err)
		return err
	}

	s.publish(ctx, ch)
	s.logger.Info("Delete: request %s deleted by user=%d", deleted.Number, actor.UserID)
	return nil
}
