package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-storefront/internal/shop"
)

// CatalogCache caches catalog reads as JSON. Redis errors are logged and
// treated as misses, so Postgres stays the source of truth.
type CatalogCache struct {
	RDB *redis.Client
}

var _ shop.CatalogCache = (*CatalogCache)(nil)

func (c *CatalogCache) Products(ctx context.Context) ([]shop.Product, bool) {
	var ps []shop.Product
	if !c.get(ctx, KeyCatalogList, &ps) {
		return nil, false
	}
	return ps, true
}

func (c *CatalogCache) SetProducts(ctx context.Context, ps []shop.Product) {
	c.set(ctx, KeyCatalogList, ps)
}

func (c *CatalogCache) Product(ctx context.Context, id int64) (shop.Product, bool) {
	var p shop.Product
	if !c.get(ctx, fmt.Sprintf(KeyCatalogProduct, id), &p) {
		return shop.Product{}, false
	}
	return p, true
}

func (c *CatalogCache) SetProduct(ctx context.Context, p shop.Product) {
	c.set(ctx, fmt.Sprintf(KeyCatalogProduct, p.ID), p)
}

// Invalidate drops the list and the given products from the cache.
func (c *CatalogCache) Invalidate(ctx context.Context, ids ...int64) error {
	keys := []string{KeyCatalogList}
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(KeyCatalogProduct, id))
	}
	return c.RDB.Del(ctx, keys...).Err()
}

func (c *CatalogCache) get(ctx context.Context, key string, out any) bool {
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("catalog cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		log.Printf("catalog cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.RDB.Set(ctx, key, b, TTLCatalog).Err(); err != nil {
		log.Printf("catalog cache set %s: %v", key, err)
	}
}
