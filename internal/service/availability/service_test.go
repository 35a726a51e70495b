package availability

import (
	"context"
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
	"github.com/m04kA/SMC-FacilityBooking/pkg/types"
)

var now = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2030, 3, day, hour, minute, 0, 0, time.UTC)
}

func span(day, fromHour, toHour int) domain.Interval {
	return domain.Interval{Start: at(day, fromHour, 0), End: at(day, toHour, 0)}
}

type fixture struct {
	store     *memory.Store
	engine    *Engine
	lab       *domain.Resource
	component *domain.Resource
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	lab, err := store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindLab,
		Name:                   "Wind tunnel L",
		CapacityUnits:          1,
		Window:                 domain.OperatingWindow{Start: "08:00", End: "18:00", Timezone: "UTC"},
		SlotGranularityMinutes: 30,
		LeadTimeDays:           2,
		HourlyRate:             decimal.NewFromInt(150),
		Active:                 true,
	})
	require.NoError(t, err)

	component, err := store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindComponent,
		Name:                   "Pressure sensor",
		StockQuantity:          10,
		AvailableQuantity:      10,
		Window:                 domain.OperatingWindow{Start: "00:00", End: types.EndOfDay, Timezone: "UTC"},
		SlotGranularityMinutes: 60,
		HourlyRate:             decimal.NewFromInt(5),
		Active:                 true,
	})
	require.NoError(t, err)

	engine := NewEngine(store.Resources(), store.Allocations(), nil, logger.NewNop()).
		WithTimeProvider(clock.Fake(now))

	return &fixture{store: store, engine: engine, lab: lab, component: component}
}

func (f *fixture) allocate(t *testing.T, resourceID int64, interval domain.Interval, qty int) domain.Allocation {
	t.Helper()
	created, err := f.store.Allocations().CreateBatch(context.Background(), []domain.Allocation{{
		ResourceID: resourceID,
		RequestID:  99,
		Interval:   interval,
		Quantity:   qty,
		Status:     domain.AllocationConfirmed,
	}})
	require.NoError(t, err)
	return created[0]
}

func TestCheck_ExclusiveLabConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.allocate(t, f.lab.ID, span(10, 10, 12), 1)

	res, err := f.engine.Check(ctx, f.lab.ID, span(10, 11, 13), 1, Options{})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.ErrorIs(t, res.Reason, domain.ErrInsufficientCapacity)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, a.ID, res.Conflicts[0].ID)

	// смежный интервал не пересекается
	res, err = f.engine.Check(ctx, f.lab.ID, span(10, 12, 14), 1, Options{})
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheck_PooledComponent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.allocate(t, f.component.ID, span(2, 10, 12), 4)

	res, err := f.engine.Check(ctx, f.component.ID, span(2, 11, 13), 7, Options{})
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Len(t, res.Conflicts, 1)

	res, err = f.engine.Check(ctx, f.component.ID, span(2, 11, 13), 6, Options{})
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheck_PreChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		interval domain.Interval
		qty      int
		opts     Options
		wantErr  error
	}{
		{
			name:     "end before start",
			interval: domain.Interval{Start: at(10, 12, 0), End: at(10, 10, 0)},
			qty:      1,
			wantErr:  domain.ErrInvalidInterval,
		},
		{
			name:     "quantity above capacity",
			interval: span(10, 10, 12),
			qty:      2,
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "start off grid",
			interval: domain.Interval{Start: at(10, 10, 15), End: at(10, 11, 15)},
			qty:      1,
			wantErr:  domain.ErrMisalignedSlot,
		},
		{
			name:     "duration off grid",
			interval: domain.Interval{Start: at(10, 10, 0), End: at(10, 10, 45)},
			qty:      1,
			wantErr:  domain.ErrMisalignedSlot,
		},
		{
			name:     "ends after closing",
			interval: span(10, 17, 19),
			qty:      1,
			wantErr:  domain.ErrOutsideOperatingWindow,
		},
		{
			name:     "spans midnight",
			interval: domain.Interval{Start: at(10, 16, 0), End: at(11, 10, 0)},
			qty:      1,
			wantErr:  domain.ErrOutsideOperatingWindow,
		},
		{
			name:     "inside lead time",
			interval: span(2, 10, 12),
			qty:      1,
			wantErr:  domain.ErrInsufficientLeadTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.engine.Check(ctx, f.lab.ID, tt.interval, tt.qty, tt.opts)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("lead time skipped for extensions", func(t *testing.T) {
		res, err := f.engine.Check(ctx, f.lab.ID, span(2, 10, 12), 1, Options{SkipLeadTime: true})
		require.NoError(t, err)
		assert.True(t, res.Available)
	})
}

func TestCheck_InactiveAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive, err := f.store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindStaff,
		Name:                   "Engineer",
		CapacityUnits:          1,
		Window:                 domain.OperatingWindow{Start: "08:00", End: "18:00"},
		SlotGranularityMinutes: 60,
		Active:                 false,
	})
	require.NoError(t, err)

	_, err = f.engine.Check(ctx, inactive.ID, span(10, 10, 12), 1, Options{})
	assert.ErrorIs(t, err, domain.ErrResourceInactive)

	_, err = f.engine.Check(ctx, 12345, span(10, 10, 12), 1, Options{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheck_WindowUntilMidnight(t *testing.T) {
	f := newFixture(t)

	res, err := f.engine.Check(context.Background(), f.component.ID,
		domain.Interval{Start: at(2, 22, 0), End: at(3, 2, 0)}, 1, Options{})
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheck_Pure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.allocate(t, f.lab.ID, span(10, 10, 12), 1)

	first, err := f.engine.Check(ctx, f.lab.ID, span(10, 9, 11), 1, Options{})
	require.NoError(t, err)
	second, err := f.engine.Check(ctx, f.lab.ID, span(10, 9, 11), 1, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.allocate(t, f.lab.ID, span(10, 10, 12), 1)

	seq, err := f.engine.Calendar(ctx, f.lab.ID, at(10, 0, 0), at(12, 0, 0))
	require.NoError(t, err)

	slots := slices.Collect(seq)
	require.Len(t, slots, 4)
	assert.Equal(t, CalendarSlot{Interval: span(10, 8, 10), RemainingCapacity: 1}, slots[0])
	assert.Equal(t, CalendarSlot{Interval: span(10, 10, 12), RemainingCapacity: 0}, slots[1])
	assert.Equal(t, CalendarSlot{Interval: span(10, 12, 18), RemainingCapacity: 1}, slots[2])
	assert.Equal(t, CalendarSlot{Interval: span(11, 8, 18), RemainingCapacity: 1}, slots[3])

	// повторный обход даёт тот же результат
	assert.Equal(t, slots, slices.Collect(seq))

	_, err = f.engine.Calendar(ctx, f.lab.ID, at(12, 0, 0), at(10, 0, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheck_WindowInResourceTimezoneAcrossDST(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2030-03-31 02:00 Europe/Berlin: переход CET (UTC+1) -> CEST (UTC+2)
	lab, err := f.store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindLab,
		Name:                   "Thermal vacuum chamber",
		CapacityUnits:          1,
		Window:                 domain.OperatingWindow{Start: "08:00", End: "18:00", Timezone: "Europe/Berlin"},
		SlotGranularityMinutes: 60,
		Active:                 true,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		interval domain.Interval
		wantErr  error
	}{
		{
			name:     "winter time 08:00-10:00 local",
			interval: domain.Interval{Start: at(30, 7, 0), End: at(30, 9, 0)},
		},
		{
			name:     "summer time 08:00-10:00 local",
			interval: domain.Interval{Start: at(31, 6, 0), End: at(31, 8, 0)},
		},
		{
			name:     "winter time 07:00 local is before opening",
			interval: domain.Interval{Start: at(30, 6, 0), End: at(30, 8, 0)},
			wantErr:  domain.ErrOutsideOperatingWindow,
		},
		{
			name:     "winter time 17:00-18:00 local",
			interval: domain.Interval{Start: at(30, 16, 0), End: at(30, 17, 0)},
		},
		{
			name:     "summer time 18:00-19:00 local is after closing",
			interval: domain.Interval{Start: at(31, 16, 0), End: at(31, 17, 0)},
			wantErr:  domain.ErrOutsideOperatingWindow,
		},
		{
			name:     "overnight across the switch",
			interval: domain.Interval{Start: at(30, 16, 0), End: at(31, 7, 0)},
			wantErr:  domain.ErrOutsideOperatingWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.engine.Check(ctx, lab.ID, tt.interval, 1, Options{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Available)
		})
	}

	seq, err := f.engine.Calendar(ctx, lab.ID, at(30, 0, 0), at(31, 23, 0))
	require.NoError(t, err)
	slots := slices.Collect(seq)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Interval.Start.Equal(at(30, 7, 0)))
	assert.True(t, slots[0].Interval.End.Equal(at(30, 17, 0)))
	assert.True(t, slots[1].Interval.Start.Equal(at(31, 6, 0)))
	assert.True(t, slots[1].Interval.End.Equal(at(31, 16, 0)))
}
