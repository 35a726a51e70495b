// Package locker общие определения блокировок по ключу.
// Реализации: local (в процессе) и redislock (между экземплярами сервиса через Redis).
package locker

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrLocked возвращается TryLock, когда ключ уже занят
	ErrLocked = errors.New("locker: key is locked")

	// ErrLockTimeout возвращается, когда ключ не удалось захватить до истечения контекста
	ErrLockTimeout = errors.New("locker: lock wait timeout")
)

// Unlock освобождает захваченные ключи; повторный вызов ничего не делает
type Unlock func()

// RequestKey ключ блокировки заявки
func RequestKey(requestID int64) string {
	return fmt.Sprintf("request:%d", requestID)
}

// ResourceKeys ключи блокировки ресурсов в порядке возрастания id без повторов
func ResourceKeys(resourceIDs []int64) []string {
	ids := slices.Clone(resourceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf("resource:%020d", id)
	}
	return keys
}
