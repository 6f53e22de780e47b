package redisx

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ariefcatur/go-storefront/internal/shop"
)

func TestCatalogCache_UnreachableRedisIsAMiss(t *testing.T) {
	rdb := New("127.0.0.1:1")
	defer rdb.Close()
	c := &CatalogCache{RDB: rdb}
	ctx := context.Background()

	c.SetProducts(ctx, []shop.Product{{ID: 1, Name: "Mug", Price: decimal.RequireFromString("9.99")}})
	_, ok := c.Products(ctx)
	assert.False(t, ok)

	c.SetProduct(ctx, shop.Product{ID: 1})
	_, ok = c.Product(ctx, 1)
	assert.False(t, ok)
}
