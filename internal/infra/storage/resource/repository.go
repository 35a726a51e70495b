package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"site_id",
	"kind",
	"name",
	"capacity_units",
	"stock_quantity",
	"available_quantity",
	"window_start",
	"window_end",
	"timezone",
	"slot_granularity_minutes",
	"lead_time_days",
	"hourly_rate",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет ресурс в каталог
// Каталог только для чтения со стороны ядра бронирования, метод используется при наполнении справочника
func (r *Repository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns(
			"site_id",
			"kind",
			"name",
			"capacity_units",
			"stock_quantity",
			"available_quantity",
			"window_start",
			"window_end",
			"timezone",
			"slot_granularity_minutes",
			"lead_time_days",
			"hourly_rate",
			"active",
		).
		Values(
			res.SiteID,
			res.Kind,
			res.Name,
			res.CapacityUnits,
			res.StockQuantity,
			res.AvailableQuantity,
			res.Window.Start,
			res.Window.End,
			res.Window.Timezone,
			res.SlotGranularityMinutes,
			res.LeadTimeDays,
			res.HourlyRate,
			res.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает ресурс по ID (включая неактивные)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// List получает ресурсы каталога с фильтрацией по площадке и типу
func (r *Repository) List(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("resources").
		OrderBy("id ASC")

	if filter.SiteID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"site_id": *filter.SiteID})
	}
	if filter.Kind != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan resource: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}

	return resources, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(
		&res.ID,
		&res.SiteID,
		&res.Kind,
		&res.Name,
		&res.CapacityUnits,
		&res.StockQuantity,
		&res.AvailableQuantity,
		&res.Window.Start,
		&res.Window.End,
		&res.Window.Timezone,
		&res.SlotGranularityMinutes,
		&res.LeadTimeDays,
		&res.HourlyRate,
		&res.Active,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
