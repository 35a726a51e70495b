package domain

// Number formats for sequence-generated identifiers
const (
	RequestNumberFormat = "REQ-%06d"
	InvoiceNumberFormat = "INV-%06d"
)

// Sequence names
const (
	SequenceRequests = "request_number_seq"
	SequenceInvoices = "invoice_number_seq"
)

// Business validation constants
const (
	MaxTitleLength         = 200
	MaxReasonLength        = 500
	MaxLineItems           = 50
	MinExtensionMinutes    = 1
	MaxExtensionMinutes    = 7 * 24 * 60
	DefaultInvoiceDueDays  = 14
	MaxCalendarRangeDays   = 62
	MinSlotGranularityMins = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
