package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

func day(hour int) time.Time {
	return time.Date(2030, 7, 2, hour, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*UseCase, *memory.Store, *domain.Resource) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	res, err := store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindStaff,
		Name:                   "Test engineer",
		CapacityUnits:          2,
		Window:                 domain.OperatingWindow{Start: "09:00", End: "13:00", Timezone: "UTC"},
		SlotGranularityMinutes: 60,
		LeadTimeDays:           1,
		HourlyRate:             decimal.NewFromInt(80),
		Active:                 true,
	})
	require.NoError(t, err)

	_, err = store.Allocations().CreateBatch(ctx, []domain.Allocation{{
		ResourceID: res.ID,
		RequestID:  1,
		Interval:   domain.Interval{Start: day(10), End: day(11)},
		Quantity:   2,
		Status:     domain.AllocationConfirmed,
	}})
	require.NoError(t, err)

	log := logger.NewNop()
	clk := clock.Fake(day(0).AddDate(0, 0, -1).Add(10 * time.Hour))
	engine := availability.NewEngine(store.Resources(), store.Allocations(), nil, log).WithTimeProvider(clk)
	uc := NewUseCase(store.Resources(), engine, log).WithTimeProvider(clk)
	return uc, store, res
}

func TestExecute(t *testing.T) {
	uc, _, res := setup(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{ResourceID: res.ID, From: day(0), To: day(24)})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Capacity)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, Slot{Start: day(9), End: day(10), RemainingCapacity: 2, Bookable: false}, resp.Slots[0])
	assert.Equal(t, Slot{Start: day(10), End: day(11), RemainingCapacity: 0, Bookable: false}, resp.Slots[1])
	assert.Equal(t, Slot{Start: day(11), End: day(13), RemainingCapacity: 2, Bookable: true}, resp.Slots[2])
}

func TestExecute_SplitAndFilter(t *testing.T) {
	uc, _, res := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID:  res.ID,
		From:        day(0),
		To:          day(24),
		MinQuantity: 1,
		Split:       true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, day(9), resp.Slots[0].Start)
	assert.Equal(t, day(11), resp.Slots[1].Start)
	assert.Equal(t, day(12), resp.Slots[2].Start)
}

func TestExecute_Validation(t *testing.T) {
	uc, _, res := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"no resource", &Request{From: day(0), To: day(1)}, domain.ErrValidation},
		{"inverted range", &Request{ResourceID: res.ID, From: day(5), To: day(1)}, domain.ErrValidation},
		{"range too long", &Request{ResourceID: res.ID, From: day(0), To: day(0).AddDate(0, 3, 0)}, domain.ErrValidation},
		{"unknown resource", &Request{ResourceID: 404, From: day(0), To: day(1)}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_SplitFollowsWindowGrid(t *testing.T) {
	uc, store, res := setup(t)
	ctx := context.Background()

	from := day(11).Add(15 * time.Minute)
	resp, err := uc.Execute(ctx, &Request{ResourceID: res.ID, From: from, To: day(24), Split: true})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{Start: from, End: day(12), RemainingCapacity: 2, Bookable: false}, resp.Slots[0])
	assert.Equal(t, Slot{Start: day(12), End: day(13), RemainingCapacity: 2, Bookable: true}, resp.Slots[1])

	// каждый слот, отмеченный как доступный, проходит проверку движка
	engine := availability.NewEngine(store.Resources(), store.Allocations(), nil, logger.NewNop()).
		WithTimeProvider(clock.Fake(day(0).AddDate(0, 0, -1).Add(10 * time.Hour)))
	for _, s := range resp.Slots {
		result, checkErr := engine.Check(ctx, res.ID, domain.Interval{Start: s.Start, End: s.End}, 1, availability.Options{})
		if s.Bookable {
			require.NoError(t, checkErr)
			assert.True(t, result.Available)
			continue
		}
		assert.ErrorIs(t, checkErr, domain.ErrMisalignedSlot)
	}
}

func TestExecute_OffGridSegmentNotBookable(t *testing.T) {
	uc, _, res := setup(t)

	from := day(11).Add(30 * time.Minute)
	resp, err := uc.Execute(context.Background(), &Request{ResourceID: res.ID, From: from, To: day(24)})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, from, resp.Slots[0].Start)
	assert.Equal(t, day(13), resp.Slots[0].End)
	assert.False(t, resp.Slots[0].Bookable)
}
