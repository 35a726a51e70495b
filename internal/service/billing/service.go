package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/refundservice"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
)

// Service сверка оплат: счета, платежи, просрочка и возвраты
type Service struct {
	invoiceRepo  InvoiceRepository
	sequence     SequenceGenerator
	refunds      RefundClient
	txManager    TxManager
	events       EventEmitter
	timeProvider TimeProvider
	metrics      MetricsRecorder
	logger       Logger
	cfg          Config
}

// NewService создает новый экземпляр сервиса
func NewService(
	invoiceRepo InvoiceRepository,
	sequence SequenceGenerator,
	refunds RefundClient,
	txManager TxManager,
	events EventEmitter,
	metrics MetricsRecorder,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.InvoiceDueDays <= 0 {
		cfg.InvoiceDueDays = domain.DefaultInvoiceDueDays
	}
	return &Service{
		invoiceRepo:  invoiceRepo,
		sequence:     sequence,
		refunds:      refunds,
		txManager:    txManager,
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

// PaymentRequired возвращает true, если переход в SCHEDULED ждёт оплаты основного счёта
func (s *Service) PaymentRequired(req *domain.Request) bool {
	return s.cfg.RequirePayment && req.Total.IsPositive()
}

// OpenPrimary выставляет основной счёт на сумму заявки.
// Вызывается внутри транзакции одобрения; для нулевой суммы счёт не выставляется.
func (s *Service) OpenPrimary(ctx context.Context, req *domain.Request) (*domain.Invoice, error) {
	if !req.Total.IsPositive() {
		return nil, nil
	}
	return s.open(ctx, &domain.Invoice{
		RequestID: req.ID,
		Kind:      domain.InvoicePrimary,
		Amount:    req.Total,
	})
}

// OpenSupplementary выставляет дополнительный счёт на сумму одобренного продления
func (s *Service) OpenSupplementary(ctx context.Context, req *domain.Request, ext *domain.Extension) (*domain.Invoice, error) {
	if !ext.DeltaAmount.IsPositive() {
		return nil, nil
	}
	extensionID := ext.ID
	return s.open(ctx, &domain.Invoice{
		RequestID:   req.ID,
		ExtensionID: &extensionID,
		Kind:        domain.InvoiceSupplementary,
		Amount:      ext.DeltaAmount,
	})
}

func (s *Service) open(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	seq, err := s.sequence.Next(ctx, domain.SequenceInvoices)
	if err != nil {
		s.logger.Error("OpenInvoice: failed to get invoice number for request id=%d: %v", inv.RequestID, err)
		return nil, fmt.Errorf("%w: OpenInvoice - next number: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	inv.Number = fmt.Sprintf(domain.InvoiceNumberFormat, seq)
	inv.Status = domain.InvoicePending
	inv.DueDate = now.AddDate(0, 0, s.cfg.InvoiceDueDays)

	created, err := s.invoiceRepo.Create(ctx, inv)
	if err != nil {
		s.logger.Error("OpenInvoice: failed to create invoice for request id=%d: %v", inv.RequestID, err)
		return nil, fmt.Errorf("%w: OpenInvoice - create: %v", ErrInternal, err)
	}

	s.recordStatus(created.Status)
	s.logger.Info("OpenInvoice: %s invoice %s for request id=%d, amount %s", created.Kind, created.Number, created.RequestID, created.Amount)
	return created, nil
}

// ConfirmPayment учитывает уведомление о захвате платежа.
// Повтор с тем же transaction id возвращает текущее состояние счёта без изменений.
// Неуспешный захват счёт не меняет.
func (s *Service) ConfirmPayment(ctx context.Context, in models.PaymentConfirmation) (*models.ConfirmResult, error) {
	// 1. Валидация
	if in.TransactionID = strings.TrimSpace(in.TransactionID); in.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidPayment)
	}
	if in.Status != domain.PaymentCaptured && in.Status != domain.PaymentFailed {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayment, in.Status)
	}
	if in.Status == domain.PaymentCaptured && !in.PaidAmount.IsPositive() {
		return nil, fmt.Errorf("%w: paid amount must be positive", ErrInvalidPayment)
	}

	result := &models.ConfirmResult{}
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Блокируем счёт
		inv, err := s.invoiceRepo.GetByID(txCtx, in.InvoiceID)
		if err != nil {
			if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
				return fmt.Errorf("%w: id=%d", ErrInvoiceNotFound, in.InvoiceID)
			}
			return fmt.Errorf("%w: ConfirmPayment - get invoice: %v", ErrInternal, err)
		}
		result.Invoice = inv

		if in.Status == domain.PaymentFailed {
			s.logger.Warn("ConfirmPayment: capture failed for invoice %s, transaction %s", inv.Number, in.TransactionID)
			return nil
		}
		if inv.Status == domain.InvoiceCancelled {
			return fmt.Errorf("%w: %s", ErrInvoiceClosed, inv.Number)
		}

		// 3. Записываем платёж, дубликат по transaction id не меняет счёт
		_, err = s.invoiceRepo.CreatePayment(txCtx, &domain.Payment{
			InvoiceID:     inv.ID,
			TransactionID: in.TransactionID,
			Amount:        in.PaidAmount,
			Status:        in.Status,
			ReceivedAt:    s.timeProvider.Now(),
		})
		if err != nil {
			if errors.Is(err, invoiceRepo.ErrDuplicatePayment) {
				result.Duplicate = true
				return nil
			}
			return fmt.Errorf("%w: ConfirmPayment - create payment: %v", ErrInternal, err)
		}

		// 4. Применяем платёж
		wasPaid := inv.Status == domain.InvoicePaid
		inv.ApplyPayment(in.PaidAmount)
		if err := s.invoiceRepo.Update(txCtx, inv); err != nil {
			return fmt.Errorf("%w: ConfirmPayment - update invoice: %v", ErrInternal, err)
		}
		result.BecamePaid = !wasPaid && inv.Status == domain.InvoicePaid
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrState) {
			s.logger.Error("ConfirmPayment: invoice id=%d, transaction %s: %v", in.InvoiceID, in.TransactionID, err)
		}
		return nil, err
	}

	if result.Duplicate {
		s.logger.Info("ConfirmPayment: transaction %s already applied to invoice %s", in.TransactionID, result.Invoice.Number)
		return result, nil
	}

	if in.Status == domain.PaymentCaptured {
		s.recordStatus(result.Invoice.Status)
	}
	if result.BecamePaid {
		s.emit(ctx, domain.EventInvoicePaid, result.Invoice)
	}
	return result, nil
}

// SweepOverdue переводит неоплаченные счета с истёкшим сроком в OVERDUE
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	var marked []*domain.Invoice
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		invoices, err := s.invoiceRepo.ListOverdue(txCtx, now)
		if err != nil {
			return fmt.Errorf("%w: SweepOverdue - list: %v", ErrInternal, err)
		}
		for _, inv := range invoices {
			inv.Status = domain.InvoiceOverdue
			if err := s.invoiceRepo.Update(txCtx, inv); err != nil {
				return fmt.Errorf("%w: SweepOverdue - update invoice id=%d: %v", ErrInternal, inv.ID, err)
			}
			marked = append(marked, inv)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SweepOverdue: %v", err)
		return 0, err
	}

	for _, inv := range marked {
		s.recordStatus(inv.Status)
		s.emit(ctx, domain.EventInvoiceOverdue, inv)
	}
	if len(marked) > 0 {
		s.logger.Info("SweepOverdue: %d invoices marked overdue", len(marked))
	}
	return len(marked), nil
}

// CloseForCancellation отменяет неоплаченные счета заявки и помечает оплаченные к возврату.
// Вызывается внутри транзакции отмены, возвращает счета, по которым нужен возврат.
func (s *Service) CloseForCancellation(ctx context.Context, requestID int64) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: CloseForCancellation - list: %v", ErrInternal, err)
	}

	var refunds []*domain.Invoice
	for _, inv := range invoices {
		switch {
		case inv.IsUnpaid():
			inv.Status = domain.InvoiceCancelled
		case inv.HasPayments() && !inv.RefundRequested:
			inv.RefundRequested = true
			refunds = append(refunds, inv)
		default:
			continue
		}
		if err := s.invoiceRepo.Update(ctx, inv); err != nil {
			return nil, fmt.Errorf("%w: CloseForCancellation - update invoice id=%d: %v", ErrInternal, inv.ID, err)
		}
		s.recordStatus(inv.Status)
	}
	return refunds, nil
}

// RequestRefunds передаёт помеченные счета в сервис возвратов.
// Ошибки внешнего сервиса логируются и не прерывают обработку остальных счетов.
func (s *Service) RequestRefunds(ctx context.Context, invoices []*domain.Invoice, reason string) {
	for _, inv := range invoices {
		s.emit(ctx, domain.EventRefundRequested, inv)
		if s.refunds == nil {
			continue
		}
		resp, err := s.refunds.RequestRefund(ctx, refundservice.RefundRequest{
			InvoiceID: inv.ID,
			RequestID: inv.RequestID,
			Amount:    inv.PaidAmount,
			Reason:    reason,
		})
		if err != nil {
			s.logger.Error("RequestRefunds: invoice %s: %v", inv.Number, err)
			continue
		}
		s.logger.Info("RequestRefunds: invoice %s refund %s is %s", inv.Number, resp.RefundID, resp.Status)
	}
}

// HasPaidInvoices возвращает true, если по заявке есть поступившие платежи
func (s *Service) HasPaidInvoices(ctx context.Context, requestID int64) (bool, error) {
	invoices, err := s.invoiceRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return false, fmt.Errorf("%w: HasPaidInvoices - list: %v", ErrInternal, err)
	}
	for _, inv := range invoices {
		if inv.HasPayments() {
			return true, nil
		}
	}
	return false, nil
}

// GetInvoice получает счёт по ID
func (s *Service) GetInvoice(ctx context.Context, id int64) (*models.InvoiceResponse, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrInvoiceNotFound, id)
		}
		s.logger.Error("GetInvoice: failed to get invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetInvoice - get: %v", ErrInternal, err)
	}
	return models.FromDomainInvoice(inv), nil
}

// ListInvoices получает счета заявки
func (s *Service) ListInvoices(ctx context.Context, requestID int64) ([]*models.InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.ListByRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("ListInvoices: failed to list invoices of request id=%d: %v", requestID, err)
		return nil, fmt.Errorf("%w: ListInvoices - list: %v", ErrInternal, err)
	}
	return models.FromDomainInvoiceList(invoices), nil
}

// IssuedEvent событие о выставленном счёте, публикуется вызывающим после фиксации транзакции
func IssuedEvent(inv *domain.Invoice, at time.Time) domain.Event {
	return domain.Event{
		Type:       domain.EventInvoiceIssued,
		RequestID:  inv.RequestID,
		Payload:    invoicePayload(inv),
		OccurredAt: at,
	}
}

func (s *Service) emit(ctx context.Context, eventType domain.EventType, inv *domain.Invoice) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, domain.Event{
		Type:       eventType,
		RequestID:  inv.RequestID,
		Payload:    invoicePayload(inv),
		OccurredAt: s.timeProvider.Now(),
	})
}

func invoicePayload(inv *domain.Invoice) map[string]any {
	payload := map[string]any{
		"invoiceId":  inv.ID,
		"number":     inv.Number,
		"kind":       string(inv.Kind),
		"amount":     inv.Amount.StringFixed(2),
		"paidAmount": inv.PaidAmount.StringFixed(2),
		"status":     string(inv.Status),
		"dueDate":    inv.DueDate.Format(domain.DateFormat),
	}
	if inv.ExtensionID != nil {
		payload["extensionId"] = *inv.ExtensionID
	}
	return payload
}

func (s *Service) recordStatus(status domain.InvoiceStatus) {
	if s.metrics != nil {
		s.metrics.RecordInvoiceStatus(string(status))
	}
}
