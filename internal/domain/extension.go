package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtensionStatus represents the approval status of an extension request
type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

// Extension is a request to append time to the end of an approved booking
type Extension struct {
	ID                int64
	RequestID         int64
	AdditionalMinutes int
	Reason            string
	Status            ExtensionStatus
	AdminMessage      *string
	PreviousEnd       time.Time
	NewEnd            time.Time
	DeltaAmount       decimal.Decimal
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}

// DeltaInterval returns the incremental interval [PreviousEnd, NewEnd)
func (e *Extension) DeltaInterval() Interval {
	return Interval{Start: e.PreviousEnd, End: e.NewEnd}
}

// IsPending returns true if the extension awaits an admin decision
func (e *Extension) IsPending() bool {
	return e.Status == ExtensionPending
}
