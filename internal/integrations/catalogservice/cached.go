package catalogservice

import (
	"context"
	"fmt"
	"time"
)

const itemKeyFmt = "catalog:item:%d"

// ItemGetter источник товаров
type ItemGetter interface {
	GetItem(ctx context.Context, itemID int64) (*Item, error)
}

// Cache хранилище JSON-значений с TTL
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// CacheObserver считает попадания в кэш
type CacheObserver interface {
	ObserveCache(result string)
}

// CachedClient кэширует ответы каталога.
// Ошибки не кэшируются, так что отсутствующий товар появится сразу после добавления в каталог.
type CachedClient struct {
	next  ItemGetter
	cache Cache
	ttl   time.Duration
	log   Logger
	obs   CacheObserver
}

// NewCachedClient оборачивает next кэшем. ttl <= 0 отключает кэширование.
// obs может быть nil.
func NewCachedClient(next ItemGetter, cache Cache, ttl time.Duration, log Logger, obs CacheObserver) *CachedClient {
	return &CachedClient{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
		obs:   obs,
	}
}

// GetItem возвращает товар из кэша или из каталога
func (c *CachedClient) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	if c.ttl <= 0 {
		return c.next.GetItem(ctx, itemID)
	}

	key := itemKey(itemID)

	var item Item
	if c.cache.GetJSON(ctx, key, &item) {
		c.observe("hit")
		return &item, nil
	}
	c.observe("miss")

	fetched, err := c.next.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	c.cache.SetJSON(ctx, key, fetched, c.ttl)
	return fetched, nil
}

// Invalidate удаляет товар из кэша
func (c *CachedClient) Invalidate(ctx context.Context, itemID int64) {
	c.cache.Delete(ctx, itemKey(itemID))
}

func itemKey(itemID int64) string {
	return fmt.Sprintf(itemKeyFmt, itemID)
}

func (c *CachedClient) observe(result string) {
	if c.obs != nil {
		c.obs.ObserveCache(result)
	}
}
