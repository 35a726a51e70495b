package domain

import (
	"slices"
	"time"
)

// Segment is a maximal sub-interval over which the used quantity is constant
type Segment struct {
	Interval Interval
	Used     int
}

type boundary struct {
	at    time.Time
	delta int
}

// Occupancy sweeps the boundary events of the given allocations inside bounds
// and returns contiguous segments covering bounds, each with its used quantity.
// Allocations that do not occupy capacity or do not overlap bounds are ignored.
func Occupancy(allocs []Allocation, bounds Interval) []Segment {
	if !bounds.Valid() {
		return nil
	}

	events := []boundary{{at: bounds.Start}, {at: bounds.End}}
	for i := range allocs {
		if !allocs[i].Occupies() {
			continue
		}
		clipped, ok := allocs[i].Interval.Clip(bounds)
		if !ok {
			continue
		}
		events = append(events,
			boundary{at: clipped.Start, delta: allocs[i].Quantity},
			boundary{at: clipped.End, delta: -allocs[i].Quantity},
		)
	}

	slices.SortFunc(events, func(a, b boundary) int {
		return a.at.Compare(b.at)
	})

	segments := make([]Segment, 0, len(events))
	used := 0
	for i := 0; i < len(events); {
		at := events[i].at
		for i < len(events) && events[i].at.Equal(at) {
			used += events[i].delta
			i++
		}
		if i == len(events) || !at.Before(bounds.End) {
			break
		}
		next := events[i].at
		if n := len(segments); n > 0 && segments[n-1].Used == used {
			segments[n-1].Interval.End = next
			continue
		}
		segments = append(segments, Segment{
			Interval: Interval{Start: at, End: next},
			Used:     used,
		})
	}
	return segments
}

// PeakUsage returns the maximum used quantity over the segments
func PeakUsage(segments []Segment) int {
	peak := 0
	for _, s := range segments {
		if s.Used > peak {
			peak = s.Used
		}
	}
	return peak
}

// CheckCapacity reports whether quantity more units fit next to allocs over the
// whole interval. When they do not, it returns the allocations overlapping every
// segment where the running sum plus quantity exceeds capacity.
func CheckCapacity(allocs []Allocation, interval Interval, quantity, capacity int) (bool, []Allocation) {
	segments := Occupancy(allocs, interval)

	var overflow []Interval
	for _, s := range segments {
		if s.Used+quantity > capacity {
			overflow = append(overflow, s.Interval)
		}
	}
	if len(overflow) == 0 {
		return true, nil
	}

	conflicts := make([]Allocation, 0)
	for _, a := range allocs {
		if !a.Occupies() {
			continue
		}
		for _, o := range overflow {
			if a.Interval.Overlaps(o) {
				conflicts = append(conflicts, a)
				break
			}
		}
	}
	SortAllocations(conflicts)
	return false, conflicts
}

// SortAllocations orders allocations by start, then by id
func SortAllocations(allocs []Allocation) {
	slices.SortFunc(allocs, func(a, b Allocation) int {
		if c := a.Interval.Start.Compare(b.Interval.Start); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}
