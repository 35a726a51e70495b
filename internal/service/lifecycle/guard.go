package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/ledger"
	"github.com/m04kA/SMC-FacilityBooking/pkg/txmanager"
)

const maxAttempts = 2

var (
	availabilityFull      = availability.Options{}
	availabilityExtension = availability.Options{SkipLeadTime: true}
)

type transition struct {
	from, to domain.RequestStatus
}

// changes переходы и события операции, публикуются только после фиксации транзакции
type changes struct {
	transitions []transition
	events      []domain.Event
}

func (c *changes) reset() {
	c.transitions = c.transitions[:0]
	c.events = c.events[:0]
}

// move переводит заявку в статус to, если автомат это допускает
func (c *changes) move(req *domain.Request, to domain.RequestStatus) error {
	if !req.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, to)
	}
	c.transitions = append(c.transitions, transition{from: req.Status, to: to})
	req.Status = to
	return nil
}

func (c *changes) event(eventType domain.EventType, req *domain.Request, payload map[string]any) {
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["number"] = req.Number
	payload["status"] = string(req.Status)
	payload["organizationId"] = req.OrganizationID
	c.events = append(c.events, domain.Event{Type: eventType, RequestID: req.ID, Payload: payload})
}

func (c *changes) add(event domain.Event) {
	c.events = append(c.events, event)
}

func (s *Service) publish(ctx context.Context, c *changes) {
	for _, t := range c.transitions {
		if s.metrics != nil {
			s.metrics.RecordTransition(string(t.from), string(t.to))
		}
	}
	if s.events == nil {
		return
	}
	now := s.timeProvider.Now()
	for _, e := range c.events {
		if e.OccurredAt.IsZero() {
			e.OccurredAt = now
		}
		s.events.Emit(ctx, e)
	}
}

// update загружает заявку с блокировкой строки, применяет fn и сохраняет с проверкой версии
func (s *Service) update(ctx context.Context, id int64, ch *changes, fn func(ctx context.Context, req *domain.Request) error) (*domain.Request, error) {
	var req *domain.Request
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		ch.reset()
		var err error
		if req, err = s.load(txCtx, id); err != nil {
			return err
		}
		if err := fn(txCtx, req); err != nil {
			return err
		}
		return s.save(txCtx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// guarded выполняет операцию, меняющую занятость ресурсов:
// неблокирующий захват заявки, блокировки ресурсов по возрастанию id, сериализуемая транзакция.
// Проигранная гонка повторяется один раз.
func (s *Service) guarded(ctx context.Context, requestID int64, op string, fn func(ctx context.Context) error) error {
	// 1. Заявка занята другой операцией - конфликт без ожидания
	unlockRequest, err := s.locker.TryLock(ctx, locker.RequestKey(requestID))
	if err != nil {
		if errors.Is(err, locker.ErrLocked) {
			return ErrRequestBusy
		}
		return fmt.Errorf("%w: %s - lock request: %v", ErrInternal, op, err)
	}
	defer unlockRequest()

	// 2. Ресурсы заявки
	req, err := s.load(ctx, requestID)
	if err != nil {
		return err
	}

	lockCtx := ctx
	if s.cfg.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.cfg.LockWait)
		defer cancel()
	}
	unlockResources, err := s.locker.LockAll(lockCtx, locker.ResourceKeys(req.ResourceIDs()))
	if err != nil {
		if errors.Is(err, locker.ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s - resource locks: %v", ErrLostRace, op, err)
		}
		return fmt.Errorf("%w: %s - lock resources: %v", ErrInternal, op, err)
	}
	defer unlockResources()

	// 3. Транзакция
	for attempt := 1; ; attempt++ {
		err = s.txManager.DoSerializable(ctx, fn)
		if err == nil || !lostRace(err) {
			return err
		}
		if attempt == maxAttempts {
			if errors.Is(err, domain.ErrConcurrencyConflict) {
				return err
			}
			return fmt.Errorf("%w: %s: %v", ErrLostRace, op, err)
		}
		s.logger.Warn("%s: request id=%d lost a race, retrying: %v", op, requestID, err)
	}
}

func lostRace(err error) bool {
	return errors.Is(err, txmanager.ErrSerializationFailure) || errors.Is(err, domain.ErrConcurrencyConflict)
}

// precheckLines проверки доступности без чтения журнала
func (s *Service) precheckLines(ctx context.Context, lines []domain.LineItem) error {
	conflicts := &domain.AvailabilityError{}
	for _, line := range lines {
		res, err := s.loadResource(ctx, line.ResourceID)
		if err != nil {
			return err
		}
		if err := s.availability.Precheck(res, line.Interval, line.Quantity, availability.Options{}); err != nil {
			if !errors.Is(err, domain.ErrAvailabilityConflict) {
				return err
			}
			conflicts.Add(domain.LineConflict{LineItemID: line.ID, ResourceID: line.ResourceID, Reason: err})
		}
	}
	if !conflicts.Empty() {
		return conflicts
	}
	return nil
}

// verifyLines полная проверка доступности позиций на интервале interval(line)
// Конфликты собираются по всем позициям и возвращаются одной ошибкой
func (s *Service) verifyLines(
	ctx context.Context,
	lines []domain.LineItem,
	interval func(domain.LineItem) domain.Interval,
	opts availability.Options,
) error {
	conflicts := &domain.AvailabilityError{}
	for _, line := range lines {
		res, err := s.loadResource(ctx, line.ResourceID)
		if err != nil {
			return err
		}
		result, err := s.availability.CheckResource(ctx, res, interval(line), line.Quantity, opts)
		if err != nil {
			if !errors.Is(err, domain.ErrAvailabilityConflict) {
				return err
			}
			conflicts.Add(domain.LineConflict{LineItemID: line.ID, ResourceID: line.ResourceID, Reason: err})
			continue
		}
		if !result.Available {
			conflicts.Add(domain.LineConflict{
				LineItemID: line.ID,
				ResourceID: line.ResourceID,
				Reason:     result.Reason,
				Conflicts:  result.Conflicts,
			})
		}
	}
	if !conflicts.Empty() {
		return conflicts
	}
	return nil
}

func claimsFor(
	req *domain.Request,
	lines []domain.LineItem,
	interval func(domain.LineItem) domain.Interval,
	extensionID *int64,
) []ledger.Claim {
	claims := make([]ledger.Claim, 0, len(lines))
	for _, line := range lines {
		claims = append(claims, ledger.Claim{
			RequestID:   req.ID,
			LineItemID:  line.ID,
			ResourceID:  line.ResourceID,
			ExtensionID: extensionID,
			Interval:    interval(line),
			Quantity:    line.Quantity,
		})
	}
	return claims
}

func lineInterval(line domain.LineItem) domain.Interval {
	return line.Interval
}
