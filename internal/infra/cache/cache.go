// Package cache хранит JSON-значения в Redis.
// Если Redis недоступен, клиент работает в режиме pass-through: промахи на чтение, запись игнорируется.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options параметры подключения
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Cache обертка над redis.Client с graceful degradation
type Cache struct {
	client *redis.Client
	log    Logger
}

// New подключается к Redis. Пустой Addr или неудачный ping дают кэш без клиента.
func New(ctx context.Context, opts Options, log Logger) *Cache {
	if opts.Addr == "" {
		log.Info("Redis cache disabled: empty addr")
		return &Cache{log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable at %s, cache disabled: %v", opts.Addr, err)
		client.Close()
		return &Cache{log: log}
	}

	log.Info("Redis cache connected: %s", opts.Addr)
	return &Cache{client: client, log: log}
}

// NewWithClient оборачивает готовый клиент. nil разрешен.
func NewWithClient(client *redis.Client, log Logger) *Cache {
	return &Cache{client: client, log: log}
}

// Enabled сообщает, подключен ли Redis
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON читает значение по ключу в dst. false при промахе или любой ошибке.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Cache.GetJSON: key=%s, error=%v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("Cache.GetJSON: broken value for key=%s, error=%v", key, err)
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// SetJSON сохраняет значение на ttl. Ошибки только логируются.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache.SetJSON: marshal key=%s, error=%v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Warn("Cache.SetJSON: key=%s, error=%v", key, err)
	}
}

// Delete удаляет ключи
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache.Delete: keys=%v, error=%v", keys, err)
	}
}

// Close закрывает соединение
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
