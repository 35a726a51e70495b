package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker/local"
	"github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/refundservice"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/availability"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/billing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/ledger"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-FacilityBooking/pkg/clock"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

var (
	now      = time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)
	customer = models.Actor{UserID: 10, OrganizationID: 100, Role: models.RoleCustomer}
	stranger = models.Actor{UserID: 20, OrganizationID: 200, Role: models.RoleCustomer}
	admin    = models.Actor{UserID: 1, Role: models.RoleAdmin}
)

func at(hour int) time.Time {
	return time.Date(2030, 6, 10, hour, 0, 0, 0, time.UTC)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *recordingEmitter) Emit(_ context.Context, event domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) has(t domain.EventType) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range e.events {
		if ev.Type == t {
			return true
		}
	}
	return false
}

type noRefunds struct{}

func (noRefunds) RequestRefund(context.Context, refundservice.RefundRequest) (*refundservice.RefundResponse, error) {
	return &refundservice.RefundResponse{RefundID: "rf", Status: "accepted"}, nil
}

type fixture struct {
	store     *memory.Store
	clock     *clock.FakeClock
	locker    *local.Locker
	ledger    *ledger.Service
	billing   *billing.Service
	events    *recordingEmitter
	svc       *Service
	lab       *domain.Resource
	component *domain.Resource
}

func newFixture(t *testing.T, requirePayment bool) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()
	clk := clock.Fake(now)
	store := memory.NewStore().WithClock(clk.Now)

	lab, err := store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindLab,
		Name:                   "Lab L",
		CapacityUnits:          1,
		Window:                 domain.OperatingWindow{Start: "09:00", End: "18:00", Timezone: "UTC"},
		SlotGranularityMinutes: 60,
		LeadTimeDays:           1,
		HourlyRate:             decimal.NewFromInt(150),
		Active:                 true,
	})
	require.NoError(t, err)

	component, err := store.Resources().Create(ctx, &domain.Resource{
		Kind:                   domain.ResourceKindComponent,
		Name:                   "Component C",
		StockQuantity:          10,
		AvailableQuantity:      10,
		Window:                 domain.OperatingWindow{Start: "09:00", End: "18:00", Timezone: "UTC"},
		SlotGranularityMinutes: 60,
		HourlyRate:             decimal.NewFromInt(5),
		Active:                 true,
	})
	require.NoError(t, err)

	events := &recordingEmitter{}
	engine := availability.NewEngine(store.Resources(), store.Allocations(), nil, log).WithTimeProvider(clk)
	ledgerSvc := ledger.NewService(store.Allocations(), store.Resources(), nil, log).WithTimeProvider(clk)
	billingSvc := billing.NewService(store.Invoices(), store.Sequence(), noRefunds{}, store, events, nil, log,
		billing.Config{InvoiceDueDays: 14, RequirePayment: requirePayment}).WithTimeProvider(clk)
	lock := local.New()

	svc := NewService(store.Requests(), store.Resources(), engine, ledgerSvc, billingSvc, lock, store,
		store.Sequence(), events, nil, log, Config{LockWait: time.Second}).WithTimeProvider(clk)

	return &fixture{
		store: store, clock: clk, locker: lock, ledger: ledgerSvc, billing: billingSvc,
		events: events, svc: svc, lab: lab, component: component,
	}
}

// submitted создает и отправляет заявку
func (f *fixture) submitted(t *testing.T, lines ...models.LineInput) *models.RequestResponse {
	t.Helper()
	ctx := context.Background()
	created, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{Title: "Test campaign", Lines: lines})
	require.NoError(t, err)
	submitted, err := f.svc.Submit(ctx, customer, created.ID)
	require.NoError(t, err)
	return submitted
}

func (f *fixture) approved(t *testing.T, lines ...models.LineInput) *models.RequestResponse {
	t.Helper()
	req := f.submitted(t, lines...)
	approved, err := f.svc.Approve(context.Background(), admin, req.ID, "")
	require.NoError(t, err)
	return approved
}

func (f *fixture) labLine(from, to int) models.LineInput {
	return models.LineInput{ResourceID: f.lab.ID, Start: at(from), End: at(to), Quantity: 1}
}

func (f *fixture) componentLine(from, to, qty int) models.LineInput {
	return models.LineInput{ResourceID: f.component.ID, Start: at(from), End: at(to), Quantity: qty}
}

func (f *fixture) occupying(t *testing.T, requestID int64) []domain.Allocation {
	t.Helper()
	allocs, err := f.ledger.ListByRequest(context.Background(), requestID)
	require.NoError(t, err)
	out := make([]domain.Allocation, 0, len(allocs))
	for _, a := range allocs {
		if a.Occupies() {
			out = append(out, a)
		}
	}
	return out
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	req, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{
		Title: "Wing flutter",
		Lines: []models.LineInput{f.labLine(10, 12), f.componentLine(10, 12, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, "REQ-000001", req.Number)
	assert.Equal(t, string(domain.StatusDraft), req.Status)
	assert.Equal(t, customer.OrganizationID, req.OrganizationID)
	// 150*2 + 5*2*3
	assert.True(t, req.Total.Equal(decimal.NewFromInt(330)), req.Total.String())

	tests := []struct {
		name    string
		in      *models.CreateRequestInput
		wantErr error
	}{
		{"empty title", &models.CreateRequestInput{Lines: []models.LineInput{f.labLine(10, 12)}}, domain.ErrValidation},
		{"no lines", &models.CreateRequestInput{Title: "x"}, domain.ErrValidation},
		{"inverted interval", &models.CreateRequestInput{Title: "x", Lines: []models.LineInput{f.labLine(12, 10)}}, domain.ErrInvalidInterval},
		{"unknown resource", &models.CreateRequestInput{Title: "x", Lines: []models.LineInput{{ResourceID: 999, Start: at(10), End: at(11), Quantity: 1}}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(ctx, customer, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmit_PrecheckFailsWithoutCommitting(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	created, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{
		Title: "Night run",
		Lines: []models.LineInput{f.labLine(17, 19)},
	})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, customer, created.ID)
	assert.ErrorIs(t, err, domain.ErrOutsideOperatingWindow)

	got, err := f.svc.GetRequest(ctx, customer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDraft), got.Status)
	assert.Empty(t, f.occupying(t, created.ID))
}

func TestApprove_LabScenario(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))
	assert.Equal(t, string(domain.StatusApproved), a.Status)
	assert.True(t, a.PaymentRequired)
	require.NotNil(t, a.ScheduledStart)
	assert.True(t, a.ScheduledStart.Equal(at(10)))
	assert.True(t, a.ScheduledEnd.Equal(at(12)))
	aAllocs := f.occupying(t, a.ID)
	require.Len(t, aAllocs, 1)

	invoices, err := f.billing.ListInvoices(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].Amount.Equal(decimal.NewFromInt(300)))

	b := f.submitted(t, f.labLine(11, 13))
	_, err = f.svc.Approve(ctx, admin, b.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAvailabilityConflict)

	var availErr *domain.AvailabilityError
	require.True(t, errors.As(err, &availErr))
	conflicting := availErr.ConflictingAllocations()
	require.Len(t, conflicting, 1)
	assert.Equal(t, aAllocs[0].ID, conflicting[0].ID)

	got, err := f.svc.GetRequest(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusSubmitted), got.Status)
	assert.Empty(t, f.occupying(t, b.ID))
	assert.True(t, f.events.has(domain.EventRequestApproved))
}

func TestApprove_AllOrNothing(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.approved(t, f.componentLine(10, 12, 4))

	req := f.submitted(t, f.labLine(14, 16), f.componentLine(11, 13, 7))
	_, err := f.svc.Approve(ctx, admin, req.ID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientCapacity)

	var availErr *domain.AvailabilityError
	require.True(t, errors.As(err, &availErr))
	require.Len(t, availErr.Items, 1)
	assert.Equal(t, f.component.ID, availErr.Items[0].ResourceID)

	assert.Empty(t, f.occupying(t, req.ID))

	// 6 единиц остаются свободными
	ok := f.approved(t, f.componentLine(11, 13, 6))
	assert.Len(t, f.occupying(t, ok.ID), 1)
}

func TestApprove_WithoutPaymentIsScheduled(t *testing.T) {
	f := newFixture(t, false)

	req := f.approved(t, f.labLine(10, 12))
	assert.Equal(t, string(domain.StatusScheduled), req.Status)
	assert.False(t, req.PaymentRequired)
	assert.True(t, f.events.has(domain.EventRequestScheduled))
}

func TestApprove_InvalidTransitionAndAccess(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	draft, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{
		Title: "Draft",
		Lines: []models.LineInput{f.labLine(10, 12)},
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, admin, draft.ID, "")
	assert.ErrorIs(t, err, domain.ErrState)

	_, err = f.svc.Approve(ctx, customer, draft.ID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetRequest(ctx, stranger, draft.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetRequest(ctx, customer, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject_NoAllocations(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	req := f.submitted(t, f.labLine(10, 12))
	assert.Empty(t, f.occupying(t, req.ID))

	_, err := f.svc.Reject(ctx, admin, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	rejected, err := f.svc.Reject(ctx, admin, req.ID, "slot conflict")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "slot conflict", *rejected.RejectionReason)
	assert.Empty(t, f.occupying(t, req.ID))

	_, err = f.svc.Approve(ctx, admin, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestBeginReviewThenApprove(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	req := f.submitted(t, f.labLine(10, 12))
	reviewed, err := f.svc.BeginReview(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusUnderReview), reviewed.Status)

	approved, err := f.svc.Approve(ctx, admin, req.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovalNote)
}

func TestExtension_ApproveAndCancel(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))

	ext, err := f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 120, Reason: "more runs"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ExtensionPending), ext.Status)
	assert.True(t, ext.DeltaAmount.Equal(decimal.NewFromInt(300)))

	_, err = f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 60})
	assert.ErrorIs(t, err, ErrExtensionPending)

	extended, err := f.svc.ApproveExtension(ctx, admin, a.ID, ext.ID, "")
	require.NoError(t, err)
	assert.True(t, extended.ScheduledStart.Equal(at(10)))
	assert.True(t, extended.ScheduledEnd.Equal(at(14)))
	assert.True(t, extended.Total.Equal(decimal.NewFromInt(600)))
	assert.Len(t, f.occupying(t, a.ID), 2)

	invoices, err := f.billing.ListInvoices(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	var supplementary bool
	for _, inv := range invoices {
		if inv.Kind == string(domain.InvoiceSupplementary) {
			supplementary = true
			assert.True(t, inv.Amount.Equal(decimal.NewFromInt(300)))
		}
	}
	assert.True(t, supplementary)

	_, err = f.svc.ApproveExtension(ctx, admin, a.ID, ext.ID, "")
	assert.ErrorIs(t, err, ErrExtensionResolved)

	// отмена возвращает журнал ресурса в исходное состояние
	cancelled, err := f.svc.Cancel(ctx, customer, a.ID, "campaign moved")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.Empty(t, f.occupying(t, a.ID))

	left, err := f.ledger.Query(ctx, f.lab.ID, domain.Interval{Start: at(0), End: at(23)})
	require.NoError(t, err)
	assert.Empty(t, left)

	invoices, err = f.billing.ListInvoices(ctx, a.ID)
	require.NoError(t, err)
	for _, inv := range invoices {
		assert.Equal(t, string(domain.InvoiceCancelled), inv.Status)
	}
}

func TestExtension_ConflictReportedPerResource(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12), f.componentLine(10, 12, 2))
	f.approved(t, f.labLine(12, 13))

	_, err := f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 120})
	require.ErrorIs(t, err, domain.ErrAvailabilityConflict)

	var availErr *domain.AvailabilityError
	require.True(t, errors.As(err, &availErr))
	require.Len(t, availErr.Items, 1)
	assert.Equal(t, f.lab.ID, availErr.Items[0].ResourceID)
}

func TestExtension_RejectAndAutoApprove(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))
	ext, err := f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 60})
	require.NoError(t, err)

	rejected, err := f.svc.RejectExtension(ctx, admin, a.ID, ext.ID, "lab maintenance")
	require.NoError(t, err)
	assert.True(t, rejected.ScheduledEnd.Equal(at(12)))
	require.Len(t, rejected.Extensions, 1)
	assert.Equal(t, string(domain.ExtensionRejected), rejected.Extensions[0].Status)
	assert.Len(t, f.occupying(t, a.ID), 1)
	assert.True(t, f.events.has(domain.EventExtensionRejected))

	f.svc.cfg.AutoApproveExtensions = true
	auto, err := f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 60})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ExtensionApproved), auto.Status)
	assert.Len(t, f.occupying(t, a.ID), 2)
}

func TestExtension_ApproveAfterScheduledEnd(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))
	ext, err := f.svc.RequestExtension(ctx, customer, a.ID, models.ExtensionInput{AdditionalMinutes: 60})
	require.NoError(t, err)

	// бронирование закончилось, Tick ещё не завершил заявку
	f.clock.Set(at(12))
	_, err = f.svc.ApproveExtension(ctx, admin, a.ID, ext.ID, "")
	assert.ErrorIs(t, err, ErrNotExtendable)
	assert.ErrorIs(t, err, domain.ErrState)

	got, err := f.svc.GetRequest(ctx, admin, a.ID)
	require.NoError(t, err)
	assert.True(t, got.ScheduledEnd.Equal(at(12)))
	require.Len(t, got.Extensions, 1)
	assert.Equal(t, string(domain.ExtensionPending), got.Extensions[0].Status)
	assert.Len(t, f.occupying(t, a.ID), 1)
}

// approveParallel одобряет заявки одновременно и возвращает ошибку по каждой
func (f *fixture) approveParallel(ids ...int64) []error {
	errs := make([]error, len(ids))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Approve(context.Background(), admin, id, "")
		}(i, id)
	}
	close(start)
	wg.Wait()
	return errs
}

func TestApprove_ConcurrentOverlappingOnlyOneWins(t *testing.T) {
	f := newFixture(t, true)
	f.svc.cfg.LockWait = 10 * time.Second
	ctx := context.Background()

	const n = 8
	ids := make([]int64, n)
	for i := range ids {
		line := f.labLine(10, 12)
		if i%2 == 1 {
			line = f.labLine(11, 13)
		}
		ids[i] = f.submitted(t, line).ID
	}

	errs := f.approveParallel(ids...)

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAvailabilityConflict)
	}
	assert.Equal(t, 1, approved)

	allocs, err := f.ledger.Query(ctx, f.lab.ID, domain.Interval{Start: at(0), End: at(23)})
	require.NoError(t, err)
	assert.Len(t, allocs, 1)

	for i, id := range ids {
		got, err := f.svc.GetRequest(ctx, admin, id)
		require.NoError(t, err)
		if errs[i] == nil {
			assert.Equal(t, string(domain.StatusApproved), got.Status)
			continue
		}
		assert.Equal(t, string(domain.StatusSubmitted), got.Status)
		assert.Empty(t, f.occupying(t, id))
	}
}

func TestApprove_ConcurrentDisjointResourcesBothSucceed(t *testing.T) {
	f := newFixture(t, true)
	f.svc.cfg.LockWait = 10 * time.Second

	lab := f.submitted(t, f.labLine(10, 12))
	component := f.submitted(t, f.componentLine(10, 12, 10))

	errs := f.approveParallel(lab.ID, component.ID)
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Len(t, f.occupying(t, lab.ID), 1)
	assert.Len(t, f.occupying(t, component.ID), 1)
}

func TestCancel_ConflictsWithInFlightApproval(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))

	unlock, err := f.locker.TryLock(ctx, locker.RequestKey(a.ID))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, customer, a.ID, "")
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Len(t, f.occupying(t, a.ID), 1)

	unlock()
	_, err = f.svc.Cancel(ctx, customer, a.ID, "")
	require.NoError(t, err)
	assert.Empty(t, f.occupying(t, a.ID))
}

func TestCancel_AccessAndState(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))
	_, err := f.svc.Cancel(ctx, stranger, a.ID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	draft, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{Title: "d", Lines: []models.LineInput{f.labLine(14, 15)}})
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, customer, draft.ID, "")
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))
	err := f.svc.Delete(ctx, customer, a.ID)
	assert.ErrorIs(t, err, ErrCannotDelete)

	draft, err := f.svc.CreateRequest(ctx, customer, &models.CreateRequestInput{Title: "d", Lines: []models.LineInput{f.labLine(14, 15)}})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, customer, draft.ID))

	_, err = f.svc.GetRequest(ctx, customer, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Cancel(ctx, customer, a.ID, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, customer, a.ID))
}

func TestMarkScheduledAndTick(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	a := f.approved(t, f.labLine(10, 12))

	n, err := f.svc.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	scheduled, err := f.svc.MarkScheduled(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), scheduled.Status)

	again, err := f.svc.MarkScheduled(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), again.Status)

	f.clock.Set(at(11))
	n, err = f.svc.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err := f.svc.GetRequest(ctx, admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusInProgress), got.Status)

	f.clock.Set(at(12))
	n, err = f.svc.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = f.svc.GetRequest(ctx, admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)

	allocs, err := f.ledger.ListByRequest(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, domain.AllocationReleased, allocs[0].Status)
}

func TestListRequests_ScopedToOrganization(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.submitted(t, f.labLine(10, 12))

	own, err := f.svc.ListRequests(ctx, customer, models.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, own.Total)

	other, err := f.svc.ListRequests(ctx, stranger, models.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, other.Total)

	status := "bogus"
	_, err = f.svc.ListRequests(ctx, admin, models.ListFilter{Status: &status})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
