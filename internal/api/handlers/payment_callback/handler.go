package payment_callback

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvoiceNotFound    = "счёт не найден"
	msgInvoiceClosed      = "счёт закрыт и не принимает оплату"
	msgInvalidPayment     = "некорректные данные оплаты"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/callback
// Повтор уведомления с тем же transactionId безопасен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var body CallbackBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /payments/callback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), body.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvoiceNotFound):
			h.logger.Warn("POST /payments/callback - Invoice not found: invoice_id=%d", body.InvoiceID)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		case errors.Is(err, billing.ErrInvoiceClosed):
			h.logger.Warn("POST /payments/callback - Invoice closed: invoice_id=%d, transaction=%s", body.InvoiceID, body.TransactionID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvoiceClosed)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /payments/callback - Invalid payment: %v", err)
			handlers.RespondJSON(w, http.StatusBadRequest, handlers.ErrorResponse{
				Error:   msgInvalidPayment,
				Details: err.Error(),
			})

		default:
			h.logger.Error("POST /payments/callback - Failed to confirm payment: invoice_id=%d, error=%v", body.InvoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/callback - invoice_id=%d, status=%s, duplicate=%t",
		body.InvoiceID, result.Invoice.Status, result.Duplicate)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
