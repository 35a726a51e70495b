package memory

import (
	"context"
	"slices"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/invoice"
)

// InvoiceRepository счета и платежи в памяти
type InvoiceRepository struct {
	s *Store
}

// Create выставляет счёт
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	r.s.write(ctx, func(st *state) {
		inv.ID = st.nextID()
		inv.CreatedAt = r.s.now()
		inv.UpdatedAt = inv.CreatedAt
		st.invoices[inv.ID] = *inv
	})
	return inv, nil
}

// GetByID получает счёт по ID
func (r *InvoiceRepository) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	var (
		inv domain.Invoice
		ok  bool
	)
	r.s.read(func(st *state) {
		inv, ok = st.invoices[id]
	})
	if !ok {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	return &inv, nil
}

// ListByRequest получает все счета заявки
func (r *InvoiceRepository) ListByRequest(_ context.Context, requestID int64) ([]*domain.Invoice, error) {
	return r.filter(func(inv domain.Invoice) bool { return inv.RequestID == requestID }), nil
}

// ListOverdue получает неоплаченные счета со сроком оплаты раньше now
func (r *InvoiceRepository) ListOverdue(_ context.Context, now time.Time) ([]*domain.Invoice, error) {
	return r.filter(func(inv domain.Invoice) bool {
		return inv.Status == domain.InvoicePending && inv.DueDate.Before(now)
	}), nil
}

// Update сохраняет статус и суммы счёта
func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	var err error
	r.s.write(ctx, func(st *state) {
		stored, ok := st.invoices[inv.ID]
		if !ok {
			err = invoiceRepo.ErrInvoiceNotFound
			return
		}
		stored.PaidAmount = inv.PaidAmount
		stored.Status = inv.Status
		stored.RefundRequested = inv.RefundRequested
		stored.UpdatedAt = r.s.now()
		st.invoices[inv.ID] = stored
		inv.UpdatedAt = stored.UpdatedAt
	})
	return err
}

// CreatePayment учитывает платёж, повторный transaction id отклоняется
func (r *InvoiceRepository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	var err error
	r.s.write(ctx, func(st *state) {
		if _, ok := st.payments[payment.TransactionID]; ok {
			err = invoiceRepo.ErrDuplicatePayment
			return
		}
		payment.ID = st.nextID()
		st.payments[payment.TransactionID] = *payment
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *InvoiceRepository) filter(keep func(domain.Invoice) bool) []*domain.Invoice {
	out := make([]*domain.Invoice, 0)
	r.s.read(func(st *state) {
		for _, inv := range st.invoices {
			if keep(inv) {
				inv := inv
				out = append(out, &inv)
			}
		}
	})
	slices.SortFunc(out, func(a, b *domain.Invoice) int { return compareID(a.ID, b.ID) })
	return out
}
