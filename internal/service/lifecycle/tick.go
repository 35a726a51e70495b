package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var tickStatuses = []domain.RequestStatus{domain.StatusScheduled, domain.StatusInProgress}

// Tick продвигает запланированные заявки по часам:
// SCHEDULED -> IN_PROGRESS после начала, -> COMPLETED после конца с освобождением распределений.
// Возвращает количество выполненных переходов; ошибки по отдельным заявкам не прерывают обход.
func (s *Service) Tick(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	due, err := s.requestRepo.ListDue(ctx, tickStatuses, now)
	if err != nil {
		s.logger.Error("Tick: failed to list due requests: %v", err)
		return 0, err
	}

	moved := 0
	for _, req := range due {
		if ctx.Err() != nil {
			return moved, ctx.Err()
		}
		n, err := s.advance(ctx, req.ID, now)
		if err != nil {
			s.logFailure("Tick", req.ID, err)
			continue
		}
		moved += n
	}

	if moved > 0 {
		s.logger.Info("Tick: %d transitions", moved)
	}
	return moved, nil
}

func (s *Service) advance(ctx context.Context, requestID int64, now time.Time) (int, error) {
	ch := &changes{}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		ch.reset()

		req, err := s.load(txCtx, requestID)
		if err != nil {
			return err
		}
		scheduled, ok := req.ScheduledInterval()
		if !ok || now.Before(scheduled.Start) {
			return nil
		}

		finished := !now.Before(scheduled.End)
		switch {
		case req.Status == domain.StatusScheduled && !finished:
			if err := ch.move(req, domain.StatusInProgress); err != nil {
				return err
			}
			ch.event(domain.EventRequestStarted, req, nil)
		case (req.Status == domain.StatusScheduled || req.Status == domain.StatusInProgress) && finished:
			if err := ch.move(req, domain.StatusCompleted); err != nil {
				return err
			}
			released, err := s.ledger.Release(txCtx, req.ID)
			if err != nil {
				return err
			}
			if err := s.dropPendingExtension(txCtx, req, "request completed", ch); err != nil {
				return err
			}
			ch.event(domain.EventRequestCompleted, req, map[string]any{"released": released})
		default:
			return nil
		}

		return s.save(txCtx, req)
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, ch)
	return len(ch.transitions), nil
}
