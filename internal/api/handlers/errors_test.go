package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		handled bool
	}{
		{name: "validation", err: fmt.Errorf("%w: title", domain.ErrValidation), status: http.StatusBadRequest, handled: true},
		{name: "invalid interval", err: domain.ErrInvalidInterval, status: http.StatusBadRequest, handled: true},
		{name: "availability", err: domain.ErrOutsideOperatingWindow, status: http.StatusConflict, handled: true},
		{name: "concurrency", err: domain.ErrConcurrencyConflict, status: http.StatusConflict, handled: true},
		{name: "state", err: fmt.Errorf("%w: cancelled", domain.ErrState), status: http.StatusUnprocessableEntity, handled: true},
		{name: "not found", err: fmt.Errorf("%w: request", domain.ErrNotFound), status: http.StatusNotFound, handled: true},
		{name: "unknown", err: errors.New("boom"), handled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handled := RespondDomainError(rec, tt.err)
			assert.Equal(t, tt.handled, handled)
			if tt.handled {
				assert.Equal(t, tt.status, rec.Code)
			}
		})
	}
}

func TestRespondDomainError_Conflicts(t *testing.T) {
	start := time.Date(2030, 6, 10, 10, 0, 0, 0, time.UTC)
	availErr := &domain.AvailabilityError{}
	availErr.Add(domain.LineConflict{
		LineItemID: 5,
		ResourceID: 3,
		Reason:     domain.ErrInsufficientCapacity,
		Conflicts: []domain.Allocation{{
			ID: 9, ResourceID: 3, RequestID: 1, Quantity: 1,
			Interval: domain.Interval{Start: start, End: start.Add(2 * time.Hour)},
		}},
	})
	availErr.Add(domain.LineConflict{LineItemID: 6, ResourceID: 4, Reason: domain.ErrResourceInactive})

	rec := httptest.NewRecorder()
	require.True(t, RespondDomainError(rec, availErr))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Conflicts, 2)
	assert.Equal(t, int64(9), body.Conflicts[0].AllocationID)
	assert.Equal(t, "insufficient_capacity", body.Conflicts[0].Reason)
	assert.Equal(t, "resource_inactive", body.Conflicts[1].Reason)
	assert.Equal(t, int64(4), body.Conflicts[1].ResourceID)
}
