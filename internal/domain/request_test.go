package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		allowed  bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusSubmitted, StatusUnderReview, true},
		{StatusSubmitted, StatusApproved, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusApproved, StatusScheduled, true},
		{StatusScheduled, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusApproved, StatusCancelled, true},
		{StatusDraft, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	for _, s := range AllStatuses {
		if s.IsTerminal() {
			assert.Empty(t, transitions[s], "terminal status %s has outgoing transitions", s)
		}
	}
}

func TestRequest_RecomputeTotals(t *testing.T) {
	req := &Request{
		LineItems: []LineItem{
			{Kind: ResourceKindLab, Interval: Interval{Start: at(10, 0), End: at(12, 0)}, Quantity: 1, Rate: decimal.NewFromInt(150)},
			{Kind: ResourceKindComponent, Interval: Interval{Start: at(10, 0), End: at(11, 30)}, Quantity: 4, Rate: decimal.NewFromInt(10)},
		},
		Extensions: []Extension{
			{Status: ExtensionApproved, DeltaAmount: decimal.NewFromInt(300)},
			{Status: ExtensionRejected, DeltaAmount: decimal.NewFromInt(1000)},
			{Status: ExtensionPending, DeltaAmount: decimal.NewFromInt(1000)},
		},
	}

	req.RecomputeTotals()

	assert.True(t, decimal.NewFromInt(300).Equal(req.LineItems[0].Charge))
	assert.True(t, decimal.NewFromInt(60).Equal(req.LineItems[1].Charge))
	assert.True(t, decimal.NewFromInt(360).Equal(req.LinesTotal))
	assert.True(t, decimal.NewFromInt(300).Equal(req.ExtensionsTotal))
	assert.True(t, decimal.NewFromInt(660).Equal(req.Total))
}

func TestRequest_ExtendableLines(t *testing.T) {
	req := &Request{
		LineItems: []LineItem{
			{ID: 1, Interval: Interval{Start: at(10, 0), End: at(12, 0)}},
			{ID: 2, Interval: Interval{Start: at(10, 0), End: at(11, 0)}},
		},
	}

	lines := req.ExtendableLines(at(12, 0))
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)

	req.Extensions = append(req.Extensions, Extension{
		Status:      ExtensionApproved,
		PreviousEnd: at(12, 0),
		NewEnd:      at(14, 0),
	})
	lines = req.ExtendableLines(at(14, 0))
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)
}

func TestAvailabilityError(t *testing.T) {
	err := &AvailabilityError{}
	err.Add(LineConflict{ResourceID: 7, Reason: ErrInsufficientCapacity})

	assert.True(t, errors.Is(err, ErrAvailabilityConflict))
	assert.True(t, errors.Is(err, ErrInsufficientCapacity))
	assert.False(t, errors.Is(err, ErrMisalignedSlot))
	assert.True(t, errors.Is(ErrInvalidInterval, ErrValidation))
	assert.Contains(t, err.Error(), "resource 7")
}
