package allocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"resource_id",
	"request_id",
	"line_item_id",
	"extension_id",
	"start_at",
	"end_at",
	"quantity",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий журнала распределений ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория распределений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch записывает набор распределений одним INSERT
// Вызывается внутри транзакции утверждения: либо записываются все строки, либо ни одной
func (r *Repository) CreateBatch(ctx context.Context, allocs []domain.Allocation) ([]domain.Allocation, error) {
	if len(allocs) == 0 {
		return nil, ErrEmptyBatch
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("allocations").
		Columns(
			"resource_id",
			"request_id",
			"line_item_id",
			"extension_id",
			"start_at",
			"end_at",
			"quantity",
			"status",
		)
	for _, a := range allocs {
		insertBuilder = insertBuilder.Values(
			a.ResourceID,
			a.RequestID,
			a.LineItemID,
			a.ExtensionID,
			a.Interval.Start.UTC(),
			a.Interval.End.UTC(),
			a.Quantity,
			a.Status,
		)
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListOverlapping получает занимающие ёмкость распределения ресурса, пересекающиеся с интервалом
// Пересечение: start_at < interval.End AND end_at > interval.Start
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListOverlapping(ctx context.Context, resourceID int64, interval domain.Interval) ([]domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("allocations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": occupyingStatuses()}).
		Where(squirrel.Lt{"start_at": interval.End.UTC()}).
		Where(squirrel.Gt{"end_at": interval.Start.UTC()}).
		OrderBy("start_at ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListByRequest получает все распределения заявки (включая освобождённые)
func (r *Repository) ListByRequest(ctx context.Context, requestID int64) ([]domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("allocations").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("start_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ReleaseByRequest переводит занимающие распределения заявки в статус released
// Строки не удаляются и остаются для аудита
func (r *Repository) ReleaseByRequest(ctx context.Context, requestID int64, at time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("allocations").
		Set("status", domain.AllocationReleased).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"request_id": requestID}).
		Where(squirrel.Eq{"status": occupyingStatuses()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByRequest - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByRequest - execute update: %v", ErrExecQuery, err)
	}

	released, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ReleaseByRequest - get affected rows: %v", ErrExecQuery, err)
	}

	return released, nil
}

func occupyingStatuses() []string {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAllocations(rows rowsScanner) ([]domain.Allocation, error) {
	allocs := make([]domain.Allocation, 0)
	for rows.Next() {
		var a domain.Allocation
		if err := rows.Scan(
			&a.ID,
			&a.ResourceID,
			&a.RequestID,
			&a.LineItemID,
			&a.ExtensionID,
			&a.Interval.Start,
			&a.Interval.End,
			&a.Quantity,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan allocation: %v", ErrScanRow, err)
		}
		allocs = append(allocs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", ErrScanRow, err)
	}
	return allocs, nil
}
