package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/pkg/types"
)

// ResourceKind represents the variant of a bookable resource
type ResourceKind string

const (
	ResourceKindLab       ResourceKind = "lab"
	ResourceKindComponent ResourceKind = "component"
	ResourceKindStaff     ResourceKind = "staff"
)

// Valid returns true for known resource kinds
func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceKindLab, ResourceKindComponent, ResourceKindStaff:
		return true
	default:
		return false
	}
}

// CapacityModel describes how concurrent usage of a resource is counted
type CapacityModel string

const (
	// CapacityTimeSlotted counts concurrent exclusive uses up to CapacityUnits
	CapacityTimeSlotted CapacityModel = "time_slotted"
	// CapacityPooled counts units drawn from a shared stock (components)
	CapacityPooled CapacityModel = "pooled"
)

// CapacityModel returns the capacity model used by resources of this kind
func (k ResourceKind) CapacityModel() CapacityModel {
	if k == ResourceKindComponent {
		return CapacityPooled
	}
	return CapacityTimeSlotted
}

// OperatingWindow daily opening hours of a resource in its own timezone
type OperatingWindow struct {
	Start    types.TimeString
	End      types.TimeString // may be "24:00"
	Timezone string
}

// Location loads the window timezone (UTC when empty)
func (w OperatingWindow) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(w.Timezone)
}

// Validate checks that the window is a non-empty same-day range
func (w OperatingWindow) Validate() error {
	if err := w.Start.Validate(); err != nil {
		return fmt.Errorf("window start: %w", err)
	}
	if err := w.End.Validate(); err != nil {
		return fmt.Errorf("window end: %w", err)
	}
	if !w.Start.IsBefore(w.End) {
		return fmt.Errorf("window start %s must be before end %s", w.Start, w.End)
	}
	if _, err := w.Location(); err != nil {
		return fmt.Errorf("window timezone: %w", err)
	}
	return nil
}

// Resource represents a bookable lab, component or staff member
type Resource struct {
	ID                     int64
	SiteID                 int64
	Kind                   ResourceKind
	Name                   string
	CapacityUnits          int // 1 = exclusive use
	StockQuantity          int // components only
	AvailableQuantity      int // components only
	Window                 OperatingWindow
	SlotGranularityMinutes int
	LeadTimeDays           int
	HourlyRate             decimal.Decimal
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Capacity returns the number of units that may be in use at the same instant
func (r *Resource) Capacity() int {
	if r.Kind.CapacityModel() == CapacityPooled {
		return r.AvailableQuantity
	}
	return r.CapacityUnits
}

// CapacityModel returns how concurrent usage of the resource is counted
func (r *Resource) CapacityModel() CapacityModel {
	return r.Kind.CapacityModel()
}

// IsShared returns true if more than one booking may overlap
func (r *Resource) IsShared() bool {
	return r.Capacity() > 1
}

// ResourceFilter filter for catalog listing
type ResourceFilter struct {
	SiteID          *int64
	Kind            *ResourceKind
	IncludeInactive bool
}
