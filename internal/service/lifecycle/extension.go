package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

// RequestExtension создает запрос на продление заявки.
// Проверяется только добавляемый интервал [конец расписания, новый конец) по всем позициям,
// которые заканчиваются вместе с заявкой; конфликты возвращаются по каждому ресурсу.
func (s *Service) RequestExtension(ctx context.Context, actor models.Actor, requestID int64, in models.ExtensionInput) (*models.ExtensionResponse, error) {
	if in.AdditionalMinutes < domain.MinExtensionMinutes || in.AdditionalMinutes > domain.MaxExtensionMinutes {
		return nil, fmt.Errorf("%w: additional minutes must be %d..%d", ErrInvalidInput,
			domain.MinExtensionMinutes, domain.MaxExtensionMinutes)
	}
	reason, err := validateReason(in.Reason, false)
	if err != nil {
		return nil, err
	}

	var (
		ext *domain.Extension
		ch  = &changes{}
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		ch.reset()

		// 1. Заявка и права
		req, err := s.load(txCtx, requestID)
		if err != nil {
			return err
		}
		if err := checkAccess(actor, req); err != nil {
			return err
		}

		// 2. Продлевать можно одобренную или запланированную заявку, которая ещё не закончилась
		if req.Status != domain.StatusApproved && req.Status != domain.StatusScheduled {
			return fmt.Errorf("%w: status %s", ErrNotExtendable, req.Status)
		}
		scheduled, ok := req.ScheduledInterval()
		if !ok || !s.timeProvider.Now().Before(scheduled.End) {
			return fmt.Errorf("%w: scheduled end has passed", ErrNotExtendable)
		}
		if pending, ok := req.PendingExtension(); ok {
			return fmt.Errorf("%w: extension id=%d", ErrExtensionPending, pending.ID)
		}

		// 3. Проверяем добавляемый интервал
		delta := domain.Interval{
			Start: scheduled.End,
			End:   scheduled.End.Add(time.Duration(in.AdditionalMinutes) * time.Minute),
		}
		lines := req.ExtendableLines(scheduled.End)
		deltaOf := func(domain.LineItem) domain.Interval { return delta }
		if err := s.verifyLines(txCtx, lines, deltaOf, availabilityExtension); err != nil {
			return err
		}

		// 4. Сохраняем ожидающее продление
		ext, err = s.requestRepo.CreateExtension(txCtx, &domain.Extension{
			RequestID:         req.ID,
			AdditionalMinutes: in.AdditionalMinutes,
			Reason:            reason,
			Status:            domain.ExtensionPending,
			PreviousEnd:       delta.Start,
			NewEnd:            delta.End,
			DeltaAmount:       extensionCharge(lines, delta),
		})
		if err != nil {
			return fmt.Errorf("%w: RequestExtension - create extension: %v", ErrInternal, err)
		}

		ch.event(domain.EventExtensionRequested, req, extensionPayload(ext))
		return nil
	})
	if err != nil {
		s.logFailure("RequestExtension", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	s.logger.Info("RequestExtension: request id=%d extension id=%d, +%d minutes, delta %s",
		requestID, ext.ID, ext.AdditionalMinutes, ext.DeltaAmount)

	if s.cfg.AutoApproveExtensions {
		_, approved, err := s.approveExtension(ctx, requestID, ext.ID, nil)
		if err != nil {
			s.logFailure("RequestExtension", requestID, err)
			return nil, err
		}
		ext = approved
	}

	resp := models.FromDomainExtension(ext)
	return &resp, nil
}

// ApproveExtension одобряет продление: добавляемый интервал перепроверяется под блокировками,
// примыкающие распределения резервируются атомарно, итоги пересчитываются и выставляется
// дополнительный счёт.
func (s *Service) ApproveExtension(ctx context.Context, actor models.Actor, requestID, extensionID int64, message string) (*models.RequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	message, err := validateReason(message, false)
	if err != nil {
		return nil, err
	}

	var msg *string
	if message != "" {
		msg = ptr.Ptr(message)
	}
	req, _, err := s.approveExtension(ctx, requestID, extensionID, msg)
	if err != nil {
		s.logFailure("ApproveExtension", requestID, err)
		return nil, err
	}
	return models.FromDomainRequest(req), nil
}

func (s *Service) approveExtension(ctx context.Context, requestID, extensionID int64, message *string) (*domain.Request, *domain.Extension, error) {
	var (
		req *domain.Request
		ext *domain.Extension
		ch  = &changes{}
	)
	err := s.guarded(ctx, requestID, "ApproveExtension", func(txCtx context.Context) error {
		ch.reset()

		// 1. Заявка и продление
		var err error
		if req, err = s.load(txCtx, requestID); err != nil {
			return err
		}
		var ok bool
		if ext, ok = req.Extension(extensionID); !ok {
			return fmt.Errorf("%w: id=%d", ErrExtensionNotFound, extensionID)
		}
		if !ext.IsPending() {
			return fmt.Errorf("%w: extension id=%d is %s", ErrExtensionResolved, ext.ID, ext.Status)
		}
		if !req.Status.HoldsAllocations() {
			return fmt.Errorf("%w: status %s", ErrNotExtendable, req.Status)
		}
		scheduled, ok := req.ScheduledInterval()
		if !ok || !scheduled.End.Equal(ext.PreviousEnd) {
			return fmt.Errorf("%w: schedule changed since extension was requested", ErrNotExtendable)
		}
		if !s.timeProvider.Now().Before(scheduled.End) {
			return fmt.Errorf("%w: scheduled end has passed", ErrNotExtendable)
		}

		// 2. Перепроверяем и резервируем добавляемый интервал
		delta := ext.DeltaInterval()
		lines := req.ExtendableLines(ext.PreviousEnd)
		deltaOf := func(domain.LineItem) domain.Interval { return delta }
		if err := s.verifyLines(txCtx, lines, deltaOf, availabilityExtension); err != nil {
			return err
		}
		extID := ext.ID
		if _, err := s.ledger.Commit(txCtx, claimsFor(req, lines, deltaOf, &extID)); err != nil {
			return err
		}

		// 3. Продление, итоги и расписание
		now := s.timeProvider.Now()
		ext.Status = domain.ExtensionApproved
		ext.AdminMessage = message
		ext.ResolvedAt = &now
		ext.DeltaAmount = extensionCharge(lines, delta)
		if err := s.requestRepo.UpdateExtension(txCtx, ext); err != nil {
			return fmt.Errorf("%w: ApproveExtension - update extension: %v", ErrInternal, err)
		}

		req.RecomputeTotals()
		req.SetSchedule(domain.Interval{Start: scheduled.Start, End: ext.NewEnd})

		// 4. Дополнительный счёт
		invoice, err := s.billing.OpenSupplementary(txCtx, req, ext)
		if err != nil {
			return err
		}

		ch.event(domain.EventExtensionApproved, req, extensionPayload(ext))
		if invoice != nil {
			ch.add(billing.IssuedEvent(invoice, now))
		}
		return s.save(txCtx, req)
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, ch)
	s.logger.Info("ApproveExtension: request %s extended to %s, total %s",
		req.Number, ext.NewEnd.Format(time.RFC3339), req.Total)
	return req, ext, nil
}

// RejectExtension отклоняет продление; распределения не меняются
func (s *Service) RejectExtension(ctx context.Context, actor models.Actor, requestID, extensionID int64, message string) (*models.RequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	message, err := validateReason(message, true)
	if err != nil {
		return nil, err
	}

	ch := &changes{}
	req, err := s.update(ctx, requestID, ch, func(txCtx context.Context, req *domain.Request) error {
		ext, ok := req.Extension(extensionID)
		if !ok {
			return fmt.Errorf("%w: id=%d", ErrExtensionNotFound, extensionID)
		}
		if !ext.IsPending() {
			return fmt.Errorf("%w: extension id=%d is %s", ErrExtensionResolved, ext.ID, ext.Status)
		}
		return s.resolveExtension(txCtx, req, ext, message, ch)
	})
	if err != nil {
		s.logFailure("RejectExtension", requestID, err)
		return nil, err
	}

	s.publish(ctx, ch)
	return models.FromDomainRequest(req), nil
}

// dropPendingExtension отклоняет ожидающее продление, если оно есть
func (s *Service) dropPendingExtension(ctx context.Context, req *domain.Request, message string, ch *changes) error {
	ext, ok := req.PendingExtension()
	if !ok {
		return nil
	}
	return s.resolveExtension(ctx, req, ext, message, ch)
}

func (s *Service) resolveExtension(ctx context.Context, req *domain.Request, ext *domain.Extension, message string, ch *changes) error {
	now := s.timeProvider.Now()
	ext.Status = domain.ExtensionRejected
	ext.AdminMessage = ptr.Ptr(message)
	ext.ResolvedAt = &now
	if err := s.requestRepo.UpdateExtension(ctx, ext); err != nil {
		return fmt.Errorf("%w: update extension id=%d: %v", ErrInternal, ext.ID, err)
	}
	ch.event(domain.EventExtensionRejected, req, extensionPayload(ext))
	return nil
}

func extensionCharge(lines []domain.LineItem, delta domain.Interval) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(domain.ComputeCharge(line.Rate, delta, line.Quantity))
	}
	return total
}

func extensionPayload(ext *domain.Extension) map[string]any {
	payload := map[string]any{
		"extensionId":       ext.ID,
		"additionalMinutes": ext.AdditionalMinutes,
		"previousEnd":       ext.PreviousEnd,
		"newEnd":            ext.NewEnd,
		"deltaAmount":       ext.DeltaAmount.StringFixed(2),
		"extensionStatus":   string(ext.Status),
	}
	if ext.AdminMessage != nil {
		payload["message"] = *ext.AdminMessage
	}
	return payload
}
