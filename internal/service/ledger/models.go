package ledger

import "github.com/m04kA/SMC-FacilityBooking/internal/domain"

// Claim запрос на занятие ресурса одной строкой заявки
type Claim struct {
	RequestID   int64
	LineItemID  int64
	ResourceID  int64
	ExtensionID *int64
	Interval    domain.Interval
	Quantity    int
}

func (c Claim) allocation() domain.Allocation {
	return domain.Allocation{
		ResourceID:  c.ResourceID,
		RequestID:   c.RequestID,
		LineItemID:  c.LineItemID,
		ExtensionID: c.ExtensionID,
		Interval:    c.Interval,
		Quantity:    c.Quantity,
		Status:      domain.AllocationConfirmed,
	}
}
