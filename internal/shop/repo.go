package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo is the Postgres Store.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(queries{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) q() queries { return queries{db: r.DB} }

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	return r.q().ListProducts(ctx)
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (Product, error) {
	return r.q().GetProduct(ctx, id)
}

func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	return r.q().CreateProduct(ctx, p)
}

func (r *Repo) CreateCart(ctx context.Context) (Cart, error) { return r.q().CreateCart(ctx) }

func (r *Repo) GetCart(ctx context.Context, id int64) (Cart, error) { return r.q().GetCart(ctx, id) }

func (r *Repo) IncrementCartItem(ctx context.Context, cartID, productID int64) (CartItem, error) {
	return r.q().IncrementCartItem(ctx, cartID, productID)
}

func (r *Repo) CartLines(ctx context.Context, cartID int64) ([]CartLine, error) {
	return r.q().CartLines(ctx, cartID)
}

func (r *Repo) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	return r.q().ClearCart(ctx, cartID)
}

func (r *Repo) InsertOrder(ctx context.Context, o Order) (Order, error) {
	return r.q().InsertOrder(ctx, o)
}

func (r *Repo) InsertOrderItem(ctx context.Context, it OrderItem) (OrderItem, error) {
	return r.q().InsertOrderItem(ctx, it)
}

func (r *Repo) GetOrder(ctx context.Context, id int64) (Order, error) {
	return r.q().GetOrder(ctx, id)
}

type queries struct{ db dbtx }

const productCols = `id, name, short_description, long_description, price, stock, image`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.ShortDescription, &p.LongDescription, &p.Price, &p.Stock, &p.Image)
}

func (q queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := scanProduct(q.db.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id), &p)
	if err != nil {
		return Product{}, notFound(err, "product %d", id)
	}
	return p, nil
}

func (q queries) CreateProduct(ctx context.Context, p Product) (Product, error) {
	err := q.db.QueryRow(ctx, `
		INSERT INTO products(name, short_description, long_description, price, stock, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Name, p.ShortDescription, p.LongDescription, p.Price, p.Stock, p.Image,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (q queries) CreateCart(ctx context.Context) (Cart, error) {
	var c Cart
	err := q.db.QueryRow(ctx, `INSERT INTO carts DEFAULT VALUES RETURNING id, created_at`).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

func (q queries) GetCart(ctx context.Context, id int64) (Cart, error) {
	var c Cart
	err := q.db.QueryRow(ctx, `SELECT id, created_at FROM carts WHERE id=$1`, id).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return Cart{}, notFound(err, "cart %d", id)
	}
	return c, nil
}

// IncrementCartItem relies on UNIQUE (cart_id, product_id): insert with
// quantity 1, or bump the existing row.
func (q queries) IncrementCartItem(ctx context.Context, cartID, productID int64) (CartItem, error) {
	var it CartItem
	err := q.db.QueryRow(ctx, `
		INSERT INTO cart_items(cart_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING id, cart_id, product_id, quantity`,
		cartID, productID,
	).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity)
	return it, err
}

func (q queries) CartLines(ctx context.Context, cartID int64) ([]CartLine, error) {
	rows, err := q.db.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
		       p.id, p.name, p.short_description, p.long_description, p.price, p.stock, p.image
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CartLine{}
	for rows.Next() {
		var l CartLine
		p := &l.Product
		if err := rows.Scan(&l.Item.ID, &l.Item.CartID, &l.Item.ProductID, &l.Item.Quantity,
			&p.ID, &p.Name, &p.ShortDescription, &p.LongDescription, &p.Price, &p.Stock, &p.Image); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (q queries) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	ct, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (q queries) InsertOrder(ctx context.Context, o Order) (Order, error) {
	err := q.db.QueryRow(ctx, `
		INSERT INTO orders(customer, address, total_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		o.Customer, o.Address, o.TotalPrice,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (q queries) InsertOrderItem(ctx context.Context, it OrderItem) (OrderItem, error) {
	err := q.db.QueryRow(ctx, `
		INSERT INTO order_items(order_id, product_id, product_name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		it.OrderID, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity,
	).Scan(&it.ID)
	if err != nil {
		return OrderItem{}, err
	}
	return it, nil
}

func (q queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := q.db.QueryRow(ctx, `
		SELECT id, customer, address, total_price, created_at, updated_at
		FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.Customer, &o.Address, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, notFound(err, "order %d", id)
	}

	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id=$1 ORDER BY id`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	o.Items = []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// notFound maps pgx.ErrNoRows to ErrNotFound and leaves other errors alone.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
