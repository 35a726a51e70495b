package redislock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-FacilityBooking/internal/infra/locker"
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// ErrRedis возвращается при ошибке обращения к Redis
var ErrRedis = errors.New("redislock: redis error")

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Config параметры блокировок
type Config struct {
	Prefix     string
	TTL        time.Duration // время жизни ключа, защищает от зависших владельцев
	RetryDelay time.Duration // пауза между попытками захвата в LockAll
}

// Locker распределённые блокировки на SET NX PX
type Locker struct {
	client *redis.Client
	cfg    Config
	logger Logger
}

// New создает Redis локер
func New(client *redis.Client, cfg Config, logger Logger) *Locker {
	if cfg.Prefix == "" {
		cfg.Prefix = "facility-booking:lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 50 * time.Millisecond
	}
	return &Locker{client: client, cfg: cfg, logger: logger}
}

// TryLock захватывает ключ одной попыткой, занятый ключ - locker.ErrLocked
func (l *Locker) TryLock(ctx context.Context, key string) (locker.Unlock, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.cfg.Prefix+key, token, l.cfg.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: TryLock %s: %v", ErrRedis, key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", locker.ErrLocked, key)
	}

	return l.unlocker(key, token), nil
}

// LockAll захватывает ключи в отсортированном порядке, повторяя попытки до отмены контекста
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
		unlock, err := l.lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

func (l *Locker) lock(ctx context.Context, key string) (locker.Unlock, error) {
	ticker := time.NewTicker(l.cfg.RetryDelay)
	defer ticker.Stop()

	for {
		unlock, err := l.TryLock(ctx, key)
		if err == nil {
			return unlock, nil
		}
		if !errors.Is(err, locker.ErrLocked) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", locker.ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlocker(key, token string) locker.Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем даже если контекст операции уже отменён
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(ctx, l.client, []string{l.cfg.Prefix + key}, token).Err(); err != nil {
				l.logger.Warn("redislock: failed to release %s: %v", key, err)
			}
		})
	}
}
