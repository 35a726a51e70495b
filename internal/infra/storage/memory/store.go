// Package memory хранилище в памяти процесса для локального запуска и тестов.
// Реализует те же репозитории, что и PostgreSQL, и транзакции со снимком состояния:
// транзакции выполняются строго последовательно, при ошибке состояние откатывается к снимку.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

type txKey struct{}

// Store общее состояние всех репозиториев
type Store struct {
	txMu  sync.Mutex   // сериализует транзакции и одиночные записи
	mu    sync.RWMutex // защищает state
	state state
	now   func() time.Time
}

type state struct {
	lastID      int64
	resources   map[int64]domain.Resource
	requests    map[int64]domain.Request
	allocations map[int64]domain.Allocation
	invoices    map[int64]domain.Invoice
	payments    map[string]domain.Payment
	sequences   map[string]int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		state: state{
			resources:   make(map[int64]domain.Resource),
			requests:    make(map[int64]domain.Request),
			allocations: make(map[int64]domain.Allocation),
			invoices:    make(map[int64]domain.Invoice),
			payments:    make(map[string]domain.Payment),
			sequences:   make(map[string]int64),
		},
		now: time.Now,
	}
}

// WithClock подменяет источник времени для created_at/updated_at
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Resources репозиторий каталога ресурсов
func (s *Store) Resources() *ResourceRepository { return &ResourceRepository{s: s} }

// Allocations репозиторий журнала распределений
func (s *Store) Allocations() *AllocationRepository { return &AllocationRepository{s: s} }

// Requests репозиторий заявок
func (s *Store) Requests() *RequestRepository { return &RequestRepository{s: s} }

// Invoices репозиторий счетов и платежей
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s: s} }

// Sequence генератор номеров
func (s *Store) Sequence() *SequenceGenerator { return &SequenceGenerator{s: s} }

// Do выполняет fn в транзакции
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции; в памяти все транзакции и так последовательны
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	s.state = snapshot
	s.mu.Unlock()
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// write вне транзакции ведёт себя как транзакция из одной операции
func (s *Store) write(ctx context.Context, fn func(st *state)) {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (st *state) nextID() int64 {
	st.lastID++
	return st.lastID
}

func (st state) clone() state {
	out := state{
		lastID:      st.lastID,
		resources:   make(map[int64]domain.Resource, len(st.resources)),
		requests:    make(map[int64]domain.Request, len(st.requests)),
		allocations: make(map[int64]domain.Allocation, len(st.allocations)),
		invoices:    make(map[int64]domain.Invoice, len(st.invoices)),
		payments:    make(map[string]domain.Payment, len(st.payments)),
		sequences:   make(map[string]int64, len(st.sequences)),
	}
	for k, v := range st.resources {
		out.resources[k] = v
	}
	for k, v := range st.requests {
		out.requests[k] = copyRequest(v)
	}
	for k, v := range st.allocations {
		out.allocations[k] = v
	}
	for k, v := range st.invoices {
		out.invoices[k] = v
	}
	for k, v := range st.payments {
		out.payments[k] = v
	}
	for k, v := range st.sequences {
		out.sequences[k] = v
	}
	return out
}

func copyRequest(r domain.Request) domain.Request {
	r.LineItems = slices.Clone(r.LineItems)
	r.Extensions = slices.Clone(r.Extensions)
	return r
}
