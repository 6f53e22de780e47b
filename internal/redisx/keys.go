package redisx

import "time"

const (
	// Catalog cache: catalog:products -> JSON []Product
	KeyCatalogList = "catalog:products"

	// Catalog cache per product: catalog:product:{id} -> JSON Product
	KeyCatalogProduct = "catalog:product:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCatalog = 1 * time.Minute
	TTLDedup   = 48 * time.Hour
)
