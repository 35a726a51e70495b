package confirm_payment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	lifecycleModels "github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

type fakeLifecycle struct {
	calls []int64
	err   error
}

func (f *fakeLifecycle) MarkScheduled(_ context.Context, requestID int64) (*lifecycleModels.RequestResponse, error) {
	f.calls = append(f.calls, requestID)
	if f.err != nil {
		return nil, f.err
	}
	return &lifecycleModels.RequestResponse{ID: requestID, Status: string(domain.StatusScheduled)}, nil
}

func setup(t *testing.T, lifecycleErr error) (*UseCase, *billing.Service, *fakeLifecycle) {
	t.Helper()
	store := memory.NewStore()
	svc := billing.NewService(store.Invoices(), store.Sequence(), nil, store, nil, nil, logger.NewNop(),
		billing.Config{InvoiceDueDays: 7, RequirePayment: true}).
		WithTimeProvider(clock.Fake(time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)))
	lc := &fakeLifecycle{err: lifecycleErr}
	return NewUseCase(svc, lc, logger.NewNop()), svc, lc
}

func TestExecute_PrimaryPaidSchedulesRequest(t *testing.T) {
	uc, svc, lc := setup(t, nil)
	ctx := context.Background()

	inv, err := svc.OpenPrimary(ctx, &domain.Request{ID: 11, Total: decimal.NewFromInt(250)})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{
		InvoiceID: inv.ID, PaidAmount: decimal.NewFromInt(100), TransactionID: "tx-1", Status: "captured",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.RequestStatus)
	assert.Empty(t, lc.calls)

	resp, err = uc.Execute(ctx, &Request{
		InvoiceID: inv.ID, PaidAmount: decimal.NewFromInt(150), TransactionID: "tx-2", Status: "captured",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.RequestStatus)
	assert.Equal(t, "scheduled", *resp.RequestStatus)
	assert.Equal(t, []int64{11}, lc.calls)
	assert.Equal(t, "paid", resp.Invoice.Status)

	// Повтор той же транзакции ничего не меняет
	resp, err = uc.Execute(ctx, &Request{
		InvoiceID: inv.ID, PaidAmount: decimal.NewFromInt(150), TransactionID: "tx-2", Status: "captured",
	})
	require.NoError(t, err)
	assert.True(t, resp.Duplicate)
	assert.Len(t, lc.calls, 1)
}

func TestExecute_SupplementaryDoesNotSchedule(t *testing.T) {
	uc, svc, lc := setup(t, nil)
	ctx := context.Background()

	inv, err := svc.OpenSupplementary(ctx, &domain.Request{ID: 12}, &domain.Extension{ID: 3, RequestID: 12, DeltaAmount: decimal.NewFromInt(40)})
	require.NoError(t, err)
	require.NotNil(t, inv)

	resp, err := uc.Execute(ctx, &Request{
		InvoiceID: inv.ID, PaidAmount: decimal.NewFromInt(40), TransactionID: "tx-s", Status: "captured",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Invoice.Status)
	assert.Nil(t, resp.RequestStatus)
	assert.Empty(t, lc.calls)
}

func TestExecute_CancelledRequestKeepsPayment(t *testing.T) {
	uc, svc, _ := setup(t, fmt.Errorf("%w: cancelled", domain.ErrState))
	ctx := context.Background()

	inv, err := svc.OpenPrimary(ctx, &domain.Request{ID: 13, Total: decimal.NewFromInt(10)})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{
		InvoiceID: inv.ID, PaidAmount: decimal.NewFromInt(10), TransactionID: "tx-c", Status: "captured",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Invoice.Status)
	assert.Nil(t, resp.RequestStatus)
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _ := setup(t, nil)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero invoice", req: &Request{InvoiceID: 0, PaidAmount: decimal.NewFromInt(1), TransactionID: "t", Status: "captured"}},
		{name: "unknown status", req: &Request{InvoiceID: 1, PaidAmount: decimal.NewFromInt(1), TransactionID: "t", Status: "refunded"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
