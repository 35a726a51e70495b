package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	invoiceRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/invoice"
	requestRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/request"
)

func TestStore_RollbackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	err := store.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := store.Allocations().CreateBatch(txCtx, []domain.Allocation{{
			ResourceID: 1,
			RequestID:  1,
			Interval:   domain.Interval{Start: start, End: start.Add(time.Hour)},
			Quantity:   1,
			Status:     domain.AllocationConfirmed,
		}})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	allocs, err := store.Allocations().ListByRequest(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, allocs)
}

func TestRequestRepository_VersionCheck(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	req, err := store.Requests().Create(ctx, &domain.Request{Title: "x", Status: domain.StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, req.Version)

	first, err := store.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	second, err := store.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)

	first.Status = domain.StatusSubmitted
	require.NoError(t, store.Requests().Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Status = domain.StatusRejected
	assert.ErrorIs(t, store.Requests().Update(ctx, second), requestRepo.ErrVersionConflict)
}

func TestInvoiceRepository_DuplicatePayment(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Invoices().CreatePayment(ctx, &domain.Payment{InvoiceID: 1, TransactionID: "tx-1"})
	require.NoError(t, err)

	_, err = store.Invoices().CreatePayment(ctx, &domain.Payment{InvoiceID: 1, TransactionID: "tx-1"})
	assert.ErrorIs(t, err, invoiceRepo.ErrDuplicatePayment)
}

func TestSequenceGenerator(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Sequence().Next(ctx, domain.SequenceRequests)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := store.Sequence().Next(ctx, domain.SequenceInvoices)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
