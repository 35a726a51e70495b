package domain

import "time"

// AllocationStatus represents the status of a ledger allocation
type AllocationStatus string

const (
	AllocationHeld      AllocationStatus = "held"
	AllocationConfirmed AllocationStatus = "confirmed"
	AllocationReleased  AllocationStatus = "released"
)

// OccupyingStatuses statuses that consume capacity
var OccupyingStatuses = []AllocationStatus{
	AllocationHeld,
	AllocationConfirmed,
}

// Allocation is a committed reservation of one resource for one interval
type Allocation struct {
	ID          int64
	ResourceID  int64
	RequestID   int64
	LineItemID  int64
	ExtensionID *int64 // set for allocations adjoining an approved extension
	Interval    Interval
	Quantity    int
	Status      AllocationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occupies returns true if the allocation consumes capacity
func (a *Allocation) Occupies() bool {
	return a.Status == AllocationConfirmed || a.Status == AllocationHeld
}
