// Package clock источник текущего времени, подменяемый в тестах
package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Real возвращает системные часы
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// FakeClock часы, которые двигаются только вручную
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// Fake создает часы, остановленные на initial
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{now: initial}
}

// Now возвращает текущее значение часов
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переставляет часы
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance сдвигает часы вперёд на d
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
