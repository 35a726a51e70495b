package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/catalog/models"
)

// Service каталог ресурсов: чистый поиск, ядро бронирования его не изменяет
type Service struct {
	resourceRepo ResourceRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(resourceRepo ResourceRepository, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// GetResource получает активный ресурс по ID
// Неизвестный и неактивный ресурс одинаково возвращают ErrResourceNotFound
func (s *Service) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetResource: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetResource: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetResource - repository error: %v", ErrInternal, err)
	}

	if !res.Active {
		s.logger.Warn("GetResource: resource id=%d is inactive", id)
		return nil, ErrResourceNotFound
	}

	return res, nil
}

// ListResources получает ресурсы с фильтрацией
func (s *Service) ListResources(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error) {
	resources, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListResources: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListResources: fetched %d resources", len(resources))
	return resources, nil
}

// CreateResource добавляет ресурс в каталог (наполнение справочника администратором)
func (s *Service) CreateResource(ctx context.Context, req *models.CreateResourceRequest) (*domain.Resource, error) {
	res, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateResource: invalid input: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateResource(res); err != nil {
		s.logger.Warn("CreateResource: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.resourceRepo.Create(ctx, res)
	if err != nil {
		s.logger.Error("CreateResource: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateResource - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateResource: created %s resource id=%d name=%q", created.Kind, created.ID, created.Name)
	return created, nil
}

func validateResource(res *domain.Resource) error {
	if !res.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", res.Kind)
	}
	if res.Name == "" {
		return errors.New("name is required")
	}
	if err := res.Window.Validate(); err != nil {
		return err
	}
	if res.SlotGranularityMinutes < domain.MinSlotGranularityMins {
		return errors.New("slot granularity must be positive")
	}
	if res.LeadTimeDays < 0 {
		return errors.New("lead time must not be negative")
	}
	if res.HourlyRate.IsNegative() {
		return errors.New("hourly rate must not be negative")
	}

	if res.CapacityModel() == domain.CapacityPooled {
		if res.StockQuantity < 1 {
			return errors.New("component stock quantity must be positive")
		}
		if res.AvailableQuantity < 0 || res.AvailableQuantity > res.StockQuantity {
			return errors.New("component available quantity must be within stock")
		}
		return nil
	}

	if res.CapacityUnits < 1 {
		return errors.New("capacity units must be positive")
	}
	return nil
}
