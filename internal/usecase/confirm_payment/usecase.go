package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing/models"
)

// UseCase use case обработки уведомления об оплате
// Оплата основного счёта переводит одобренную заявку в SCHEDULED
type UseCase struct {
	billing   BillingService
	lifecycle LifecycleService
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(billing BillingService, lifecycle LifecycleService, logger Logger) *UseCase {
	return &UseCase{
		billing:   billing,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: invoice=%d, transaction=%s, status=%s, amount=%s",
		req.InvoiceID, req.TransactionID, req.Status, req.PaidAmount)

	// 1. Валидация входных данных
	if req.InvoiceID <= 0 {
		return nil, fmt.Errorf("%w: invoiceId must be positive", ErrInvalidInput)
	}
	status := domain.PaymentStatus(req.Status)
	if status != domain.PaymentCaptured && status != domain.PaymentFailed {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	// 2. Учитываем платёж
	result, err := uc.billing.ConfirmPayment(ctx, models.PaymentConfirmation{
		InvoiceID:     req.InvoiceID,
		PaidAmount:    req.PaidAmount,
		TransactionID: req.TransactionID,
		Status:        status,
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Invoice:   models.FromDomainInvoice(result.Invoice),
		Duplicate: result.Duplicate,
	}

	// 3. Оплаченный основной счёт открывает переход в SCHEDULED
	if !result.BecamePaid || result.Invoice.Kind != domain.InvoicePrimary {
		return resp, nil
	}

	scheduled, err := uc.lifecycle.MarkScheduled(ctx, result.Invoice.RequestID)
	if err != nil {
		// Платёж уже учтён: заявку могли отменить, пока шла оплата
		if errors.Is(err, domain.ErrState) {
			uc.logger.Warn("ConfirmPayment: request id=%d not scheduled: %v", result.Invoice.RequestID, err)
			return resp, nil
		}
		uc.logger.Error("ConfirmPayment: failed to schedule request id=%d: %v", result.Invoice.RequestID, err)
		return nil, err
	}

	resp.RequestStatus = &scheduled.Status
	return resp, nil
}
