// Package catalog read-through кеш справочника поверх Redis.
// Кеширует только read-heavy выборки (мастера, клиенты, услуги);
// конфликт-чувствительные пути (слоты, бронирования) читают БД напрямую.
// При недоступности Redis кеш деградирует до прямого чтения из репозитория.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salonmarket/booking-service/internal/domain"
)

// CatalogRepository источник данных справочника
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Cache read-through кеш справочника
type Cache struct {
	rdb  *redis.Client
	repo CatalogRepository
	ttl  time.Duration
	log  Logger
}

// New создает кеш справочника
func New(rdb *redis.Client, repo CatalogRepository, ttl time.Duration, log Logger) *Cache {
	return &Cache{
		rdb:  rdb,
		repo: repo,
		ttl:  ttl,
		log:  log,
	}
}

// GetMaster получает мастера: сперва из кеша, при промахе — из БД с записью в кеш
func (c *Cache) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	key := fmt.Sprintf("catalog:master:%d", id)

	var cached domain.Master
	if err := c.getCached(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	master, err := c.repo.GetMaster(ctx, id)
	if err != nil {
		return nil, err
	}

	c.setCached(ctx, key, master)
	return master, nil
}

// GetClient получает клиента через кеш
func (c *Cache) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	key := fmt.Sprintf("catalog:client:%d", id)

	var cached domain.Client
	if err := c.getCached(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	client, err := c.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	c.setCached(ctx, key, client)
	return client, nil
}

// GetService получает услугу через кеш
func (c *Cache) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	key := fmt.Sprintf("catalog:service:%d", id)

	var cached domain.Service
	if err := c.getCached(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	service, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	c.setCached(ctx, key, service)
	return service, nil
}

// getCached читает и десериализует значение из Redis.
// Ошибки соединения логируются и трактуются как промах (graceful degradation).
func (c *Cache) getCached(ctx context.Context, key string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("catalog cache: redis GET %s failed, falling back to db: %v", key, err)
		}
		return ErrCacheMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("catalog cache: corrupted value at %s, falling back to db: %v", key, err)
		return ErrCacheMiss
	}

	return nil
}

// setCached пишет значение в Redis с TTL. Ошибка записи не фатальна.
func (c *Cache) setCached(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Error("catalog cache: %v: %v", ErrEncode, err)
		return
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache: redis SET %s failed: %v", key, err)
	}
}
