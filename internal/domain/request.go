package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus represents the lifecycle status of a booking request
type RequestStatus string

const (
	StatusDraft       RequestStatus = "draft"
	StatusSubmitted   RequestStatus = "submitted"
	StatusUnderReview RequestStatus = "under_review"
	StatusApproved    RequestStatus = "approved"
	StatusRejected    RequestStatus = "rejected"
	StatusScheduled   RequestStatus = "scheduled"
	StatusInProgress  RequestStatus = "in_progress"
	StatusCompleted   RequestStatus = "completed"
	StatusCancelled   RequestStatus = "cancelled"
)

// transitions allowed moves of the request state machine
var transitions = map[RequestStatus][]RequestStatus{
	StatusDraft:       {StatusSubmitted},
	StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusScheduled, StatusCancelled},
	StatusScheduled:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress:  {StatusCompleted},
}

// AllStatuses every request status, in lifecycle order
var AllStatuses = []RequestStatus{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ParseRequestStatus validates a status string
func ParseRequestStatus(s string) (RequestStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether the state machine allows s -> to
func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for REJECTED, COMPLETED and CANCELLED
func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// HoldsAllocations returns true for statuses that own confirmed allocations
func (s RequestStatus) HoldsAllocations() bool {
	return s == StatusApproved || s == StatusScheduled || s == StatusInProgress
}

// Request is a booking request aggregating one or more line items
type Request struct {
	ID             int64
	Number         string
	Title          string
	OrganizationID int64
	RequestedBy    int64
	Status         RequestStatus

	LineItems  []LineItem
	Extensions []Extension

	LinesTotal      decimal.Decimal
	ExtensionsTotal decimal.Decimal
	Total           decimal.Decimal

	// Defined only once the request is approved
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time

	PaymentRequired    bool
	ApprovalNote       *string
	RejectionReason    *string
	CancellationReason *string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeTotals recalculates line charges and totals.
// Total = Σ line charges + Σ approved extension deltas.
func (r *Request) RecomputeTotals() {
	lines := decimal.Zero
	for i := range r.LineItems {
		r.LineItems[i].RecomputeCharge()
		lines = lines.Add(r.LineItems[i].Charge)
	}

	extensions := decimal.Zero
	for _, ext := range r.Extensions {
		if ext.Status == ExtensionApproved {
			extensions = extensions.Add(ext.DeltaAmount)
		}
	}

	r.LinesTotal = lines
	r.ExtensionsTotal = extensions
	r.Total = lines.Add(extensions)
}

// LinesInterval returns the bounding box of the line item intervals
func (r *Request) LinesInterval() Interval {
	intervals := make([]Interval, 0, len(r.LineItems))
	for _, line := range r.LineItems {
		intervals = append(intervals, line.Interval)
	}
	return BoundingBox(intervals...)
}

// ScheduledInterval returns the scheduled interval once the request is approved
func (r *Request) ScheduledInterval() (Interval, bool) {
	if r.ScheduledStart == nil || r.ScheduledEnd == nil {
		return Interval{}, false
	}
	return Interval{Start: *r.ScheduledStart, End: *r.ScheduledEnd}, true
}

// SetSchedule sets the scheduled interval
func (r *Request) SetSchedule(i Interval) {
	start, end := i.Start, i.End
	r.ScheduledStart = &start
	r.ScheduledEnd = &end
}

// ExtendableLines returns the lines whose interval runs up to end (the current scheduled end)
func (r *Request) ExtendableLines(end time.Time) []LineItem {
	lines := make([]LineItem, 0, len(r.LineItems))
	for _, line := range r.LineItems {
		if r.lineEnd(line).Equal(end) {
			lines = append(lines, line)
		}
	}
	return lines
}

// lineEnd returns the end of a line including approved extensions that continue it
func (r *Request) lineEnd(line LineItem) time.Time {
	end := line.Interval.End
	for _, ext := range r.Extensions {
		if ext.Status == ExtensionApproved && ext.PreviousEnd.Equal(end) {
			end = ext.NewEnd
		}
	}
	return end
}

// PendingExtension returns the pending extension if there is one
func (r *Request) PendingExtension() (*Extension, bool) {
	for i := range r.Extensions {
		if r.Extensions[i].IsPending() {
			return &r.Extensions[i], true
		}
	}
	return nil, false
}

// Extension returns the extension with the given id
func (r *Request) Extension(id int64) (*Extension, bool) {
	for i := range r.Extensions {
		if r.Extensions[i].ID == id {
			return &r.Extensions[i], true
		}
	}
	return nil, false
}

// ResourceIDs returns the distinct resource ids referenced by the line items
func (r *Request) ResourceIDs() []int64 {
	seen := make(map[int64]struct{}, len(r.LineItems))
	ids := make([]int64, 0, len(r.LineItems))
	for _, line := range r.LineItems {
		if _, ok := seen[line.ResourceID]; ok {
			continue
		}
		seen[line.ResourceID] = struct{}{}
		ids = append(ids, line.ResourceID)
	}
	return ids
}

// RequestFilter filter for request listing
type RequestFilter struct {
	OrganizationID *int64
	RequestedBy    *int64
	Status         *RequestStatus
	StartsAfter    *time.Time
	StartsBefore   *time.Time
}
