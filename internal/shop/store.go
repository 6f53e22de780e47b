package shop

import "context"

// Queries are the single-statement storage operations the workflow is built from.
type Queries interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)

	CreateCart(ctx context.Context) (Cart, error)
	GetCart(ctx context.Context, id int64) (Cart, error)
	// IncrementCartItem adds one unit of productID to the cart, creating the
	// item with quantity 1 when the pair does not exist yet.
	IncrementCartItem(ctx context.Context, cartID, productID int64) (CartItem, error)
	CartLines(ctx context.Context, cartID int64) ([]CartLine, error)
	ClearCart(ctx context.Context, cartID int64) (int64, error)

	InsertOrder(ctx context.Context, o Order) (Order, error)
	InsertOrderItem(ctx context.Context, it OrderItem) (OrderItem, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
}

type Store interface {
	Queries
	// InTx runs fn inside one transaction. Any error from fn rolls back.
	InTx(ctx context.Context, fn func(q Queries) error) error
}

// CatalogCache is an optional read-through cache for the catalog.
type CatalogCache interface {
	Products(ctx context.Context) ([]Product, bool)
	SetProducts(ctx context.Context, ps []Product)
	Product(ctx context.Context, id int64) (Product, bool)
	SetProduct(ctx context.Context, p Product)
}

// EventPublisher is fire-and-forget; implementations buffer and deliver asynchronously.
type EventPublisher interface {
	PublishEvent(key []byte, eventType string, value []byte)
}
