// Package slots кэширует рассчитанную доступность по (дата, услуга, мастер)
//
// Ключи одной даты собираются в множество slots:idx:<date>, чтобы изменение записей
// или блокировок на дату сбрасывало все варианты расчета разом
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/metrics"
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

// DefaultTTL время жизни записи кэша по умолчанию
const DefaultTTL = 5 * time.Minute

const cacheName = "slots"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("slots.cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("slots.cache: failed to write")
)

// Cache кэш доступности в Redis
type Cache struct {
	rdb         redis.Cmdable
	ttl         time.Duration
	metrics     *metrics.Metrics
	serviceName string
}

// New создает кэш; ttl <= 0 заменяется на DefaultTTL, m может быть nil
func New(rdb redis.Cmdable, ttl time.Duration, m *metrics.Metrics, serviceName string) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl, metrics: m, serviceName: serviceName}
}

// Get возвращает слоты из кэша; found=false при промахе
func (c *Cache) Get(ctx context.Context, serviceID int64, date types.Date, professionalID *int64) ([]domain.AvailableSlot, bool, error) {
	raw, err := c.rdb.Get(ctx, slotsKey(serviceID, date, professionalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.observe("miss")
		return nil, false, nil
	}
	if err != nil {
		c.observe("error")
		return nil, false, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.observe("error")
		return nil, false, fmt.Errorf("%w: decode: %v", ErrCacheRead, err)
	}

	c.observe("hit")
	return slots, true, nil
}

// Set сохраняет слоты и регистрирует ключ в индексе даты
func (c *Cache) Set(ctx context.Context, serviceID int64, date types.Date, professionalID *int64, slots []domain.AvailableSlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCacheWrite, err)
	}

	key := slotsKey(serviceID, date, professionalID)
	idx := indexKey(date)

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, raw, c.ttl)
		pipe.SAdd(ctx, idx, key)
		pipe.Expire(ctx, idx, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// InvalidateDate удаляет все закэшированные расчеты на дату
func (c *Cache) InvalidateDate(ctx context.Context, date types.Date) error {
	idx := indexKey(date)

	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	if err := c.rdb.Del(ctx, append(keys, idx)...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// InvalidateAll удаляет весь кэш доступности (смена настроек, часов работы, каталога)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "slots:*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrCacheWrite, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

func (c *Cache) observe(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CacheRequestsTotal.WithLabelValues(c.serviceName, cacheName, result).Inc()
}

func slotsKey(serviceID int64, date types.Date, professionalID *int64) string {
	pro := "any"
	if professionalID != nil {
		pro = strconv.FormatInt(*professionalID, 10)
	}
	return fmt.Sprintf("slots:%s:%d:%s", date.String(), serviceID, pro)
}

func indexKey(date types.Date) string {
	return "slots:idx:" + date.String()
}

// Noop кэш, используемый при выключенном Redis
type Noop struct{}

func (Noop) Get(context.Context, int64, types.Date, *int64) ([]domain.AvailableSlot, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, int64, types.Date, *int64, []domain.AvailableSlot) error {
	return nil
}

func (Noop) InvalidateDate(context.Context, types.Date) error {
	return nil
}

func (Noop) InvalidateAll(context.Context) error {
	return nil
}
