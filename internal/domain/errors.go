package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by the core wraps exactly one of them.
var (
	// ErrValidation malformed input, never retried
	ErrValidation = errors.New("validation error")
	// ErrAvailabilityConflict the requested capacity is not available
	ErrAvailabilityConflict = errors.New("availability conflict")
	// ErrConcurrencyConflict a concurrent writer won the race, retry is possible
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrState the operation is not allowed in the current state
	ErrState = errors.New("state error")
	// ErrNotFound unknown entity
	ErrNotFound = errors.New("not found")
)

// Availability sub-reasons
var (
	ErrInvalidInterval        = fmt.Errorf("%w: invalid interval", ErrValidation)
	ErrMisalignedSlot         = fmt.Errorf("%w: misaligned slot", ErrAvailabilityConflict)
	ErrOutsideOperatingWindow = fmt.Errorf("%w: outside operating window", ErrAvailabilityConflict)
	ErrInsufficientLeadTime   = fmt.Errorf("%w: insufficient lead time", ErrAvailabilityConflict)
	ErrResourceInactive       = fmt.Errorf("%w: resource inactive", ErrAvailabilityConflict)
	ErrInsufficientCapacity   = fmt.Errorf("%w: insufficient capacity", ErrAvailabilityConflict)
)

// LineConflict describes why one line item could not be allocated
type LineConflict struct {
	LineItemID int64
	ResourceID int64
	Reason     error
	Conflicts  []Allocation
}

// AvailabilityError aggregates per-line conflicts of a multi-line check
type AvailabilityError struct {
	Items []LineConflict
}

func (e *AvailabilityError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("resource %d: %v", item.ResourceID, item.Reason))
	}
	return "availability conflict: " + strings.Join(parts, "; ")
}

// Unwrap exposes the reason of every conflicting line to errors.Is
func (e *AvailabilityError) Unwrap() []error {
	errs := make([]error, 0, len(e.Items)+1)
	errs = append(errs, ErrAvailabilityConflict)
	for _, item := range e.Items {
		if item.Reason != nil {
			errs = append(errs, item.Reason)
		}
	}
	return errs
}

// Add appends a line conflict
func (e *AvailabilityError) Add(item LineConflict) {
	e.Items = append(e.Items, item)
}

// Empty returns true if no conflicts were recorded
func (e *AvailabilityError) Empty() bool {
	return len(e.Items) == 0
}

// ConflictingAllocations returns all allocations across the recorded conflicts
func (e *AvailabilityError) ConflictingAllocations() []Allocation {
	var out []Allocation
	for _, item := range e.Items {
		out = append(out, item.Conflicts...)
	}
	return out
}
