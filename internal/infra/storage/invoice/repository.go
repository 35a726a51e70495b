package invoice

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

var columns = []string{
	"id",
	"number",
	"request_id",
	"extension_id",
	"kind",
	"amount",
	"paid_amount",
	"due_date",
	"status",
	"refund_requested",
	"created_at",
	"updated_at",
}

// Repository репозиторий счетов и платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create выставляет счёт
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"number",
			"request_id",
			"extension_id",
			"kind",
			"amount",
			"paid_amount",
			"due_date",
			"status",
			"refund_requested",
		).
		Values(
			inv.Number,
			inv.RequestID,
			inv.ExtensionID,
			inv.Kind,
			inv.Amount,
			inv.PaidAmount,
			inv.DueDate.UTC(),
			inv.Status,
			inv.RefundRequested,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return inv, nil
}

// GetByID получает счёт по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("invoices").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	inv, err := scanInvoice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan invoice: %v", ErrScanRow, err)
	}

	return inv, nil
}

// ListByRequest получает все счета заявки
func (r *Repository) ListByRequest(ctx context.Context, requestID int64) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("invoices").
		Where(squirrel.Eq{"request_id": requestID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequest - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, executor, query, args, "ListByRequest")
}

// ListOverdue получает неоплаченные счета со сроком оплаты раньше now
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("invoices").
		Where(squirrel.Eq{"status": string(domain.InvoicePending)}).
		Where(squirrel.Lt{"due_date": now.UTC()}).
		OrderBy("due_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverdue - build select query: %v", ErrBuildQuery, err)
	}

	return r.list(ctx, executor, query, args, "ListOverdue")
}

// Update сохраняет статус и суммы счёта
func (r *Repository) Update(ctx context.Context, inv *domain.Invoice) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("paid_amount", inv.PaidAmount).
		Set("status", inv.Status).
		Set("refund_requested", inv.RefundRequested).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": inv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get affected rows: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// CreatePayment учитывает платёж
// Повторный transaction id не записывается, возвращается ErrDuplicatePayment
func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("invoice_id", "transaction_id", "amount", "status", "received_at").
		Values(payment.InvoiceID, payment.TransactionID, payment.Amount, payment.Status, payment.ReceivedAt.UTC()).
		Suffix("ON CONFLICT (transaction_id) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePayment - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDuplicatePayment
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePayment - execute insert: %v", ErrExecQuery, err)
	}

	return payment, nil
}

func (r *Repository) list(ctx context.Context, executor DBExecutor, query string, args []any, op string) ([]*domain.Invoice, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan invoice: %v", ErrScanRow, op, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return invoices, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.RequestID,
		&inv.ExtensionID,
		&inv.Kind,
		&inv.Amount,
		&inv.PaidAmount,
		&inv.DueDate,
		&inv.Status,
		&inv.RefundRequested,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
