// Package attempts считает неудачные попытки входа в окне блокировки
package attempts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCounter возвращается при ошибке обращения к Redis
var ErrCounter = errors.New("attempts: counter unavailable")

// Counter счетчик неудачных попыток в Redis
// Ключ живет window с первой неудачной попытки
type Counter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
}

// New создает счетчик; limit <= 0 отключает блокировку
func New(rdb redis.Cmdable, limit int, window time.Duration) *Counter {
	return &Counter{rdb: rdb, limit: limit, window: window}
}

// Locked превышен ли лимит неудачных попыток для email
func (c *Counter) Locked(ctx context.Context, email string) (bool, error) {
	if c.limit <= 0 {
		return false, nil
	}

	n, err := c.rdb.Get(ctx, key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCounter, err)
	}
	return n >= c.limit, nil
}

// RegisterFailure увеличивает счетчик и возвращает текущее значение
func (c *Counter) RegisterFailure(ctx context.Context, email string) (int, error) {
	k := key(email)

	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCounter, err)
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, c.window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCounter, err)
		}
	}
	return int(n), nil
}

// Reset сбрасывает счетчик после успешного входа
func (c *Counter) Reset(ctx context.Context, email string) error {
	if err := c.rdb.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCounter, err)
	}
	return nil
}

func key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}

// Noop счетчик без блокировки (Redis выключен)
type Noop struct{}

func (Noop) Locked(context.Context, string) (bool, error) { return false, nil }

func (Noop) RegisterFailure(context.Context, string) (int, error) { return 0, nil }

func (Noop) Reset(context.Context, string) error { return nil }
