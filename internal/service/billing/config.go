package billing

// Config параметры выставления счетов
type Config struct {
	InvoiceDueDays int
	RequirePayment bool
}
