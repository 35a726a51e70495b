package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes the approval invoice from extension invoices
type InvoiceKind string

const (
	InvoicePrimary       InvoiceKind = "primary"
	InvoiceSupplementary InvoiceKind = "supplementary"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePaid          InvoiceStatus = "paid"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// Invoice is a billing snapshot tied to a request
type Invoice struct {
	ID              int64
	Number          string
	RequestID       int64
	ExtensionID     *int64
	Kind            InvoiceKind
	Amount          decimal.Decimal
	PaidAmount      decimal.Decimal
	DueDate         time.Time
	Status          InvoiceStatus
	RefundRequested bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Outstanding returns the amount still to be paid
func (i *Invoice) Outstanding() decimal.Decimal {
	rest := i.Amount.Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsUnpaid returns true if no money has been received
func (i *Invoice) IsUnpaid() bool {
	return i.Status == InvoicePending || i.Status == InvoiceOverdue
}

// HasPayments returns true if some money has been received
func (i *Invoice) HasPayments() bool {
	return i.Status == InvoicePaid || i.Status == InvoicePartiallyPaid
}

// ApplyPayment adds amount to the paid sum and updates the status
func (i *Invoice) ApplyPayment(amount decimal.Decimal) {
	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.PaidAmount.GreaterThanOrEqual(i.Amount) {
		i.Status = InvoicePaid
		return
	}
	if i.PaidAmount.IsPositive() {
		i.Status = InvoicePartiallyPaid
	}
}

// PaymentStatus capture status reported by the payment collaborator
type PaymentStatus string

const (
	PaymentCaptured PaymentStatus = "captured"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is a captured payment applied to an invoice
type Payment struct {
	ID            int64
	InvoiceID     int64
	TransactionID string
	Amount        decimal.Decimal
	Status        PaymentStatus
	ReceivedAt    time.Time
}
