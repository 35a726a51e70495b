package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

type fakePublisher struct {
	mu        sync.Mutex
	failures  int
	published []domain.Event
}

func (p *fakePublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

type fakeMetrics struct {
	failures map[string]int
}

func (m *fakeMetrics) RecordNotificationFailure(eventType string) {
	m.failures[eventType]++
}

func TestDispatcher_EmitFillsIdentity(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, DispatcherConfig{}, logger.NewNop(), nil)

	d.Emit(context.Background(), domain.Event{Type: domain.EventRequestApproved, RequestID: 7})

	require.Len(t, pub.published, 1)
	assert.NotEmpty(t, pub.published[0].ID)
	assert.False(t, pub.published[0].OccurredAt.IsZero())
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcher_RetriesFailedEvents(t *testing.T) {
	pub := &fakePublisher{failures: 2}
	m := &fakeMetrics{failures: map[string]int{}}
	d := NewDispatcher(pub, DispatcherConfig{MaxRetries: 3}, logger.NewNop(), m)

	d.Emit(context.Background(), domain.Event{Type: domain.EventRequestCancelled, RequestID: 1})
	assert.Equal(t, 1, d.Pending())
	assert.Empty(t, pub.published)

	d.RetryPending(context.Background())
	assert.Equal(t, 1, d.Pending())

	d.RetryPending(context.Background())
	assert.Equal(t, 0, d.Pending())
	require.Len(t, pub.published, 1)
	assert.Equal(t, 2, m.failures[string(domain.EventRequestCancelled)])
}

func TestDispatcher_DropsAfterMaxRetries(t *testing.T) {
	pub := &fakePublisher{failures: 100}
	d := NewDispatcher(pub, DispatcherConfig{MaxRetries: 2}, logger.NewNop(), nil)

	d.Emit(context.Background(), domain.Event{Type: domain.EventRequestRejected, RequestID: 1})
	d.RetryPending(context.Background())
	assert.Equal(t, 1, d.Pending())
	d.RetryPending(context.Background())
	assert.Equal(t, 0, d.Pending())
}
