package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/psqlbuilder"
)

var requestColumns = []string{
	"id",
	"number",
	"title",
	"organization_id",
	"requested_by",
	"status",
	"lines_total",
	"extensions_total",
	"total",
	"scheduled_start",
	"scheduled_end",
	"payment_required",
	"approval_note",
	"rejection_reason",
	"cancellation_reason",
	"version",
	"created_at",
	"updated_at",
}

var lineColumns = []string{
	"id",
	"request_id",
	"resource_id",
	"kind",
	"start_at",
	"end_at",
	"quantity",
	"rate",
	"charge",
}

var extensionColumns = []string{
	"id",
	"request_id",
	"additional_minutes",
	"reason",
	"status",
	"admin_message",
	"previous_end",
	"new_end",
	"delta_amount",
	"created_at",
	"resolved_at",
}

// Repository репозиторий заявок (заявка + позиции + продления)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку вместе с позициями
// Должен вызываться в транзакции, иначе при ошибке вставки позиций останется заявка без позиций
func (r *Repository) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("requests").
		Columns(
			"number",
			"title",
			"organization_id",
			"requested_by",
			"status",
			"lines_total",
			"extensions_total",
			"total",
			"payment_required",
			"version",
		).
		Values(
			req.Number,
			req.Title,
			req.OrganizationID,
			req.RequestedBy,
			req.Status,
			req.LinesTotal,
			req.ExtensionsTotal,
			req.Total,
			req.PaymentRequired,
			1,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.Version, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	for i := range req.LineItems {
		line := &req.LineItems[i]
		line.RequestID = req.ID

		query, args, err := psqlbuilder.Insert("request_line_items").
			Columns("request_id", "resource_id", "kind", "start_at", "end_at", "quantity", "rate", "charge").
			Values(
				line.RequestID,
				line.ResourceID,
				line.Kind,
				line.Interval.Start.UTC(),
				line.Interval.End.UTC(),
				line.Quantity,
				line.Rate,
				line.Charge,
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build line insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
			return nil, fmt.Errorf("%w: Create - execute line insert: %v", ErrExecQuery, err)
		}
	}

	return req, nil
}

// GetByID получает заявку с позициями и продлениями
// Внутри транзакции строка заявки блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	if err := r.loadChildren(ctx, executor, req); err != nil {
		return nil, err
	}

	return req, nil
}

// List получает заявки с фильтрацией по организации, автору, статусу и периоду
func (r *Repository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("requests").
		OrderBy("created_at DESC", "id DESC")

	if filter.OrganizationID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"organization_id": *filter.OrganizationID})
	}
	if filter.RequestedBy != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requested_by": *filter.RequestedBy})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartsAfter != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_start": filter.StartsAfter.UTC()})
	}
	if filter.StartsBefore != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_start": filter.StartsBefore.UTC()})
	}

	return r.list(ctx, executor, selectBuilder, "List")
}

// ListDue получает заявки в указанных статусах, запланированное начало которых не позже now
// Используется фоновым тиком для переходов SCHEDULED -> IN_PROGRESS -> COMPLETED
func (r *Repository) ListDue(ctx context.Context, statuses []domain.RequestStatus, now time.Time) ([]*domain.Request, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("requests").
		Where(squirrel.Eq{"status": statusStrings}).
		Where(squirrel.LtOrEq{"scheduled_start": now.UTC()}).
		OrderBy("scheduled_start ASC", "id ASC")

	return r.list(ctx, executor, selectBuilder, "ListDue")
}

// Update сохраняет изменения заявки с оптимистичной блокировкой по версии
// При успехе увеличивает req.Version, при несовпадении версии возвращает ErrVersionConflict
func (r *Repository) Update(ctx context.Context, req *domain.Request) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("requests").
		Set("title", req.Title).
		Set("status", req.Status).
		Set("lines_total", req.LinesTotal).
		Set("extensions_total", req.ExtensionsTotal).
		Set("total", req.Total).
		Set("scheduled_start", utcPtr(req.ScheduledStart)).
		Set("scheduled_end", utcPtr(req.ScheduledEnd)).
		Set("payment_required", req.PaymentRequired).
		Set("approval_note", req.ApprovalNote).
		Set("rejection_reason", req.RejectionReason).
		Set("cancellation_reason", req.CancellationReason).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": req.ID}).
		Where(squirrel.Eq{"version": req.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.Version, &req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет заявку (позиции, продления и счета удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get affected rows: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// CreateExtension сохраняет запрос на продление
func (r *Repository) CreateExtension(ctx context.Context, ext *domain.Extension) (*domain.Extension, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("request_extensions").
		Columns(
			"request_id",
			"additional_minutes",
			"reason",
			"status",
			"admin_message",
			"previous_end",
			"new_end",
			"delta_amount",
			"resolved_at",
		).
		Values(
			ext.RequestID,
			ext.AdditionalMinutes,
			ext.Reason,
			ext.Status,
			ext.AdminMessage,
			ext.PreviousEnd.UTC(),
			ext.NewEnd.UTC(),
			ext.DeltaAmount,
			utcPtr(ext.ResolvedAt),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateExtension - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&ext.ID, &ext.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateExtension - execute insert: %v", ErrExecQuery, err)
	}

	return ext, nil
}

// UpdateExtension сохраняет решение по продлению
func (r *Repository) UpdateExtension(ctx context.Context, ext *domain.Extension) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("request_extensions").
		Set("status", ext.Status).
		Set("admin_message", ext.AdminMessage).
		Set("delta_amount", ext.DeltaAmount).
		Set("resolved_at", utcPtr(ext.ResolvedAt)).
		Where(squirrel.Eq{"id": ext.ID}).
		Where(squirrel.Eq{"request_id": ext.RequestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateExtension - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateExtension - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateExtension - get affected rows: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrExtensionNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, executor DBExecutor, selectBuilder squirrel.SelectBuilder, op string) ([]*domain.Request, error) {
	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %s - scan request: %v", ErrScanRow, op, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	rows.Close()

	// Позиции догружаем после закрытия курсора: внутри транзакции нельзя держать два открытых запроса
	for _, req := range requests {
		if err := r.loadChildren(ctx, executor, req); err != nil {
			return nil, err
		}
	}

	return requests, nil
}

func (r *Repository) loadChildren(ctx context.Context, executor DBExecutor, req *domain.Request) error {
	lines, err := r.listLines(ctx, executor, req.ID)
	if err != nil {
		return err
	}
	extensions, err := r.listExtensions(ctx, executor, req.ID)
	if err != nil {
		return err
	}
	req.LineItems = lines
	req.Extensions = extensions
	return nil
}

func (r *Repository) listLines(ctx context.Context, executor DBExecutor, requestID int64) ([]domain.LineItem, error) {
	query, args, err := psqlbuilder.Select(lineColumns...).
		From("request_line_items").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listLines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listLines - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]domain.LineItem, 0)
	for rows.Next() {
		var line domain.LineItem
		if err := rows.Scan(
			&line.ID,
			&line.RequestID,
			&line.ResourceID,
			&line.Kind,
			&line.Interval.Start,
			&line.Interval.End,
			&line.Quantity,
			&line.Rate,
			&line.Charge,
		); err != nil {
			return nil, fmt.Errorf("%w: listLines - scan line: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listLines - rows iteration: %v", ErrScanRow, err)
	}

	return lines, nil
}

func (r *Repository) listExtensions(ctx context.Context, executor DBExecutor, requestID int64) ([]domain.Extension, error) {
	query, args, err := psqlbuilder.Select(extensionColumns...).
		From("request_extensions").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listExtensions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listExtensions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	extensions := make([]domain.Extension, 0)
	for rows.Next() {
		var ext domain.Extension
		if err := rows.Scan(
			&ext.ID,
			&ext.RequestID,
			&ext.AdditionalMinutes,
			&ext.Reason,
			&ext.Status,
			&ext.AdminMessage,
			&ext.PreviousEnd,
			&ext.NewEnd,
			&ext.DeltaAmount,
			&ext.CreatedAt,
			&ext.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: listExtensions - scan extension: %v", ErrScanRow, err)
		}
		extensions = append(extensions, ext)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listExtensions - rows iteration: %v", ErrScanRow, err)
	}

	return extensions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var req domain.Request
	err := row.Scan(
		&req.ID,
		&req.Number,
		&req.Title,
		&req.OrganizationID,
		&req.RequestedBy,
		&req.Status,
		&req.LinesTotal,
		&req.ExtensionsTotal,
		&req.Total,
		&req.ScheduledStart,
		&req.ScheduledEnd,
		&req.PaymentRequired,
		&req.ApprovalNote,
		&req.RejectionReason,
		&req.CancellationReason,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
