package local

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// Locker блокировки по ключу внутри одного процесса
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New создает локальный локер
func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// TryLock захватывает ключ без ожидания, занятый ключ - locker.ErrLocked
func (l *Locker) TryLock(_ context.Context, key string) (locker.Unlock, error) {
	e := l.acquire(key)
	select {
	case e.ch <- struct{}{}:
		return l.unlocker(key, e), nil
	default:
		l.releaseRef(key, e)
		return nil, fmt.Errorf("%w: %s", locker.ErrLocked, key)
	}
}

// LockAll захватывает ключи в отсортированном порядке, ожидая освобождения занятых
// При отмене контекста уже захваченные ключи освобождаются
func (l *Locker) LockAll(ctx context.Context, keys []string) (locker.Unlock, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]locker.Unlock, 0, len(sorted))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, key := range sorted {
		e := l.acquire(key)
		select {
		case e.ch <- struct{}{}:
			unlocks = append(unlocks, l.unlocker(key, e))
		case <-ctx.Done():
			l.releaseRef(key, e)
			releaseAll()
			return nil, fmt.Errorf("%w: %s: %v", locker.ErrLockTimeout, key, ctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseRef(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *Locker) unlocker(key string, e *entry) locker.Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.releaseRef(key, e)
		})
	}
}
