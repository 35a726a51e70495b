package redislock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

// Интеграционный тест, нужен запущенный Redis: REDIS_ADDR=localhost:6379
func newTestLocker(t *testing.T) *Locker {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}

	client, err := NewClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return New(client, Config{
		Prefix:     "test:" + uuid.NewString() + ":",
		TTL:        5 * time.Second,
		RetryDelay: 5 * time.Millisecond,
	}, logger.NewNop())
}

func TestLocker_TryLock(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "request:1")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "request:1")
	assert.ErrorIs(t, err, locker.ErrLocked)

	unlock()

	again, err := l.TryLock(ctx, "request:1")
	require.NoError(t, err)
	again()
}

func TestLocker_LockAllTimeout(t *testing.T) {
	l := newTestLocker(t)

	held, err := l.TryLock(context.Background(), "resource:2")
	require.NoError(t, err)
	defer held()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = l.LockAll(ctx, []string{"resource:2", "resource:1"})
	assert.ErrorIs(t, err, locker.ErrLockTimeout)

	probe, err := l.TryLock(context.Background(), "resource:1")
	require.NoError(t, err)
	probe()
}
