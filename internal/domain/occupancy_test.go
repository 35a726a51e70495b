package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2030, 3, 4, hour, minute, 0, 0, time.UTC)
}

func alloc(id int64, from, to, qty int) Allocation {
	return Allocation{
		ID:         id,
		ResourceID: 1,
		Interval:   Interval{Start: at(from, 0), End: at(to, 0)},
		Quantity:   qty,
		Status:     AllocationConfirmed,
	}
}

func TestOccupancy(t *testing.T) {
	bounds := Interval{Start: at(9, 0), End: at(18, 0)}

	t.Run("empty ledger is a single free segment", func(t *testing.T) {
		segments := Occupancy(nil, bounds)
		require.Len(t, segments, 1)
		assert.True(t, segments[0].Interval.Equal(bounds))
		assert.Equal(t, 0, segments[0].Used)
	})

	t.Run("overlapping allocations are summed", func(t *testing.T) {
		allocs := []Allocation{alloc(1, 10, 12, 4), alloc(2, 11, 13, 3)}
		segments := Occupancy(allocs, bounds)

		require.Len(t, segments, 5)
		assert.Equal(t, []int{0, 4, 7, 3, 0}, []int{
			segments[0].Used, segments[1].Used, segments[2].Used, segments[3].Used, segments[4].Used,
		})
		assert.Equal(t, at(11, 0), segments[2].Interval.Start)
		assert.Equal(t, at(12, 0), segments[2].Interval.End)
		assert.Equal(t, 7, PeakUsage(segments))
	})

	t.Run("adjacent allocations do not overlap", func(t *testing.T) {
		allocs := []Allocation{alloc(1, 10, 12, 1), alloc(2, 12, 14, 1)}
		segments := Occupancy(allocs, bounds)

		assert.Equal(t, 1, PeakUsage(segments))
		require.Len(t, segments, 3)
		assert.Equal(t, at(10, 0), segments[1].Interval.Start)
		assert.Equal(t, at(14, 0), segments[1].Interval.End)
	})

	t.Run("released allocations are ignored", func(t *testing.T) {
		released := alloc(1, 10, 12, 1)
		released.Status = AllocationReleased
		segments := Occupancy([]Allocation{released}, bounds)

		assert.Equal(t, 0, PeakUsage(segments))
	})

	t.Run("allocations are clipped to bounds", func(t *testing.T) {
		segments := Occupancy([]Allocation{alloc(1, 8, 10, 1)}, bounds)

		require.Len(t, segments, 2)
		assert.Equal(t, at(9, 0), segments[0].Interval.Start)
		assert.Equal(t, 1, segments[0].Used)
	})
}

func TestCheckCapacity(t *testing.T) {
	t.Run("exclusive lab conflict", func(t *testing.T) {
		allocs := []Allocation{alloc(1, 10, 12, 1)}
		ok, conflicts := CheckCapacity(allocs, Interval{Start: at(11, 0), End: at(13, 0)}, 1, 1)

		assert.False(t, ok)
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(1), conflicts[0].ID)
	})

	t.Run("pooled component", func(t *testing.T) {
		allocs := []Allocation{alloc(1, 10, 12, 4)}
		interval := Interval{Start: at(11, 0), End: at(13, 0)}

		ok, _ := CheckCapacity(allocs, interval, 6, 10)
		assert.True(t, ok)

		ok, conflicts := CheckCapacity(allocs, interval, 7, 10)
		assert.False(t, ok)
		assert.Len(t, conflicts, 1)
	})

	t.Run("only allocations in overflowing segments are reported", func(t *testing.T) {
		allocs := []Allocation{alloc(1, 9, 10, 2), alloc(2, 11, 12, 1), alloc(3, 11, 12, 1)}
		ok, conflicts := CheckCapacity(allocs, Interval{Start: at(9, 0), End: at(13, 0)}, 1, 2)

		assert.False(t, ok)
		require.Len(t, conflicts, 3)

		ok, conflicts = CheckCapacity(allocs, Interval{Start: at(10, 0), End: at(13, 0)}, 1, 2)
		assert.False(t, ok)
		require.Len(t, conflicts, 2)
		assert.Equal(t, int64(2), conflicts[0].ID)
		assert.Equal(t, int64(3), conflicts[1].ID)
	})
}
