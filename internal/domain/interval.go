package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval returns ErrInvalidInterval when end is not after start
func NewInterval(start, end time.Time) (Interval, error) {
	i := Interval{Start: start, End: end}
	if !i.Valid() {
		return Interval{}, ErrInvalidInterval
	}
	return i, nil
}

// Valid returns true if the interval has a positive length
func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Hours returns the interval length in hours with minute precision
func (i Interval) Hours() decimal.Decimal {
	minutes := int64(i.Duration() / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Adjacent intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Contains reports whether t lies inside [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Clip returns the part of i that lies inside bounds
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	start := i.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := i.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	clipped := Interval{Start: start, End: end}
	return clipped, clipped.Valid()
}

// Equal compares both bounds as instants
func (i Interval) Equal(o Interval) bool {
	return i.Start.Equal(o.Start) && i.End.Equal(o.End)
}

// BoundingBox returns min(start)..max(end) of the given intervals
func BoundingBox(intervals ...Interval) Interval {
	if len(intervals) == 0 {
		return Interval{}
	}
	box := intervals[0]
	for _, i := range intervals[1:] {
		if i.Start.Before(box.Start) {
			box.Start = i.Start
		}
		if i.End.After(box.End) {
			box.End = i.End
		}
	}
	return box
}
