package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	requestRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/request"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
)

// Service менеджер жизненного цикла заявок
type Service struct {
	requestRepo  RequestRepository
	resourceRepo ResourceRepository
	availability AvailabilityChecker
	ledger       Ledger
	billing      Billing
	locker       Locker
	txManager    TxManager
	sequence     SequenceGenerator
	events       EventEmitter
	timeProvider TimeProvider
	metrics      MetricsRecorder
	logger       Logger
	cfg          Config
}

// NewService создает новый экземпляр менеджера жизненного цикла
func NewService(
	requestRepo RequestRepository,
	resourceRepo ResourceRepository,
	availability AvailabilityChecker,
	ledger Ledger,
	billing Billing,
	locker Locker,
	txManager TxManager,
	sequence SequenceGenerator,
	events EventEmitter,
	metrics MetricsRecorder,
	logger Logger,
	cfg Config,
) *Service {
	return &Service{
		requestRepo:  requestRepo,
		resourceRepo: resourceRepo,
		availability: availability,
		ledger:       ledger,
		billing:      billing,
		locker:       locker,
		txManager:    txManager,
		sequence:     sequence,
		events:       events,
		timeProvider: clock.Real(),
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetRequest получает заявку по ID
// Клиент видит только заявки своей организации
func (s *Service) GetRequest(ctx context.Context, actor models.Actor, id int64) (*models.RequestResponse, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(actor, req); err != nil {
		s.logger.Warn("GetRequest: access denied for user=%d to request id=%d", actor.UserID, id)
		return nil, err
	}
	return models.FromDomainRequest(req), nil
}

// ListRequests получает заявки с фильтрацией
// Для клиента список ограничен его организацией
func (s *Service) ListRequests(ctx context.Context, actor models.Actor, in models.ListFilter) (*models.RequestListResponse, error) {
	filter := domain.RequestFilter{
		StartsAfter:  in.StartsAfter,
		StartsBefore: in.StartsBefore,
	}
	if in.Status != nil {
		status, ok := domain.ParseRequestStatus(*in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		filter.Status = &status
	}
	if !actor.IsAdmin() {
		orgID := actor.OrganizationID
		filter.OrganizationID = &orgID
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListRequests: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRequests - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainRequestList(requests), nil
}

// CreateRequest создает черновик заявки
// Ставки ресурсов фиксируются в позициях на момент создания
func (s *Service) CreateRequest(ctx context.Context, actor models.Actor, in *models.CreateRequestInput) (*models.RequestResponse, error) {
	s.logger.Info("CreateRequest: user=%d org=%d, %d lines", actor.UserID, actor.OrganizationID, len(in.Lines))

	// 1. Валидация заголовка
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > domain.MaxTitleLength {
		return nil, fmt.Errorf("%w: title must be 1..%d characters", ErrInvalidInput, domain.MaxTitleLength)
	}
	if len(in.Lines) == 0 || len(in.Lines) > domain.MaxLineItems {
		return nil, fmt.Errorf("%w: request must have 1..%d lines", ErrInvalidInput, domain.MaxLineItems)
	}

	// 2. Позиции: ресурс существует и активен, интервал и количество корректны
	lines := make([]domain.LineItem, 0, len(in.Lines))
	for i, l := range in.Lines {
		interval, err := domain.NewInterval(l.Start, l.End)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d", err, i+1)
		}
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", ErrInvalidInput, i+1)
		}

		res, err := s.loadResource(ctx, l.ResourceID)
		if err != nil {
			return nil, err
		}
		if !res.Active {
			return nil, fmt.Errorf("%w: line %d resource id=%d", domain.ErrResourceInactive, i+1, res.ID)
		}

		lines = append(lines, domain.LineItem{
			ResourceID: res.ID,
			Kind:       res.Kind,
			Interval:   interval,
			Quantity:   l.Quantity,
			Rate:       res.HourlyRate,
		})
	}

	// 3. Номер заявки
	seq, err := s.sequence.Next(ctx, domain.SequenceRequests)
	if err != nil {
		s.logger.Error("CreateRequest: failed to get request number: %v", err)
		return nil, fmt.Errorf("%w: CreateRequest - next number: %v", ErrInternal, err)
	}

	req := &domain.Request{
		Number:         fmt.Sprintf(domain.RequestNumberFormat, seq),
		Title:          title,
		OrganizationID: actor.OrganizationID,
		RequestedBy:    actor.UserID,
		Status:         domain.StatusDraft,
		LineItems:      lines,
	}
	req.RecomputeTotals()

	// 4. Сохраняем
	created, err := s.requestRepo.Create(ctx, req)
	if err != nil {
		s.logger.Error("CreateRequest: failed to create request: %v", err)
		return nil, fmt.Errorf("%w: CreateRequest - create: %v", ErrInternal, err)
	}

	ch := &changes{}
	ch.event(domain.EventRequestCreated, created, nil)
	s.publish(ctx, ch)

	s.logger.Info("CreateRequest: created request %s id=%d, total %s", created.Number, created.ID, created.Total)
	return models.FromDomainRequest(created), nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrRequestNotFound, id)
		}
		s.logger.Error("load: repository error for request id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: load request: %v", ErrInternal, err)
	}
	return req, nil
}

func (s *Service) loadResource(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrResourceNotFound, id)
		}
		s.logger.Error("loadResource: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: load resource: %v", ErrInternal, err)
	}
	return res, nil
}

func (s *Service) save(ctx context.Context, req *domain.Request) error {
	if err := s.requestRepo.Update(ctx, req); err != nil {
		if errors.Is(err, requestRepo.ErrVersionConflict) {
			return fmt.Errorf("%w: request id=%d version %d", ErrLostRace, req.ID, req.Version)
		}
		return fmt.Errorf("%w: save request: %v", ErrInternal, err)
	}
	return nil
}

// checkAccess клиент работает только с заявками своей организации
func checkAccess(actor models.Actor, req *domain.Request) error {
	if actor.IsAdmin() || actor.OrganizationID == req.OrganizationID {
		return nil
	}
	return ErrAccessDenied
}

func requireAdmin(actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return ErrAccessDenied
}

func validateReason(reason string, required bool) (string, error) {
	reason = strings.TrimSpace(reason)
	if required && reason == "" {
		return "", fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return reason, nil
}

// logFailure ошибки клиента пишутся как предупреждения, остальные как ошибки
func (s *Service) logFailure(op string, requestID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrState),
		errors.Is(err, domain.ErrAvailabilityConflict),
		errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, ErrAccessDenied):
		s.logger.Warn("%s: request id=%d: %v", op, requestID, err)
	default:
		s.logger.Error("%s: request id=%d: %v", op, requestID, err)
	}
}
