// Package shoptest provides an in-memory shop.Store for tests.
package shoptest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/shop"
)

// MemStore is a shop.Store backed by maps. InTx snapshots the whole state and
// restores it when the callback fails.
type MemStore struct {
	mu sync.Mutex
	st *state
}

var _ shop.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{st: newState()}
}

// FailOn makes the named operation (e.g. "InsertOrderItem") return err until
// cleared with a nil err.
func (m *MemStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.st.fail, op)
		return
	}
	m.st.fail[op] = err
}

// Seed inserts products directly and returns them with ids assigned.
func (m *MemStore) Seed(ps ...shop.Product) []shop.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]shop.Product, 0, len(ps))
	for _, p := range ps {
		p, _ = m.st.CreateProduct(context.Background(), p)
		out = append(out, p)
	}
	return out
}

// DeleteProduct mimics the schema's cascades: cart items go, order items keep
// their snapshot with a nil product id.
func (m *MemStore) DeleteProduct(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.st.products, id)
	for k, it := range m.st.cartItems {
		if it.ProductID == id {
			delete(m.st.cartItems, k)
		}
	}
	for k, it := range m.st.orderItems {
		if it.ProductID != nil && *it.ProductID == id {
			it.ProductID = nil
			m.st.orderItems[k] = it
		}
	}
}

// CountOrders reports how many orders exist.
func (m *MemStore) CountOrders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.orders)
}

func (m *MemStore) InTx(ctx context.Context, fn func(q shop.Queries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.st.clone()
	if err := fn(m.st); err != nil {
		m.st = snap
		return err
	}
	return nil
}

func (m *MemStore) ListProducts(ctx context.Context) ([]shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.ListProducts(ctx)
}

func (m *MemStore) GetProduct(ctx context.Context, id int64) (shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.GetProduct(ctx, id)
}

func (m *MemStore) CreateProduct(ctx context.Context, p shop.Product) (shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.CreateProduct(ctx, p)
}

func (m *MemStore) CreateCart(ctx context.Context) (shop.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.CreateCart(ctx)
}

func (m *MemStore) GetCart(ctx context.Context, id int64) (shop.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.GetCart(ctx, id)
}

func (m *MemStore) IncrementCartItem(ctx context.Context, cartID, productID int64) (shop.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.IncrementCartItem(ctx, cartID, productID)
}

func (m *MemStore) CartLines(ctx context.Context, cartID int64) ([]shop.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.CartLines(ctx, cartID)
}

func (m *MemStore) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.ClearCart(ctx, cartID)
}

func (m *MemStore) InsertOrder(ctx context.Context, o shop.Order) (shop.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.InsertOrder(ctx, o)
}

func (m *MemStore) InsertOrderItem(ctx context.Context, it shop.OrderItem) (shop.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.InsertOrderItem(ctx, it)
}

func (m *MemStore) GetOrder(ctx context.Context, id int64) (shop.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.GetOrder(ctx, id)
}

type cartKey struct{ cartID, productID int64 }

// state holds the tables; its methods assume the MemStore lock is held.
type state struct {
	seq        int64
	products   map[int64]shop.Product
	carts      map[int64]shop.Cart
	cartItems  map[cartKey]shop.CartItem
	orders     map[int64]shop.Order
	orderItems map[int64]shop.OrderItem
	fail       map[string]error
}

func newState() *state {
	return &state{
		products:   map[int64]shop.Product{},
		carts:      map[int64]shop.Cart{},
		cartItems:  map[cartKey]shop.CartItem{},
		orders:     map[int64]shop.Order{},
		orderItems: map[int64]shop.OrderItem{},
		fail:       map[string]error{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range s.fail {
		c.fail[k] = v
	}
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func (s *state) ListProducts(ctx context.Context) ([]shop.Product, error) {
	if err := s.fail["ListProducts"]; err != nil {
		return nil, err
	}
	out := make([]shop.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *state) GetProduct(ctx context.Context, id int64) (shop.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return shop.Product{}, fmt.Errorf("product %d: %w", id, shop.ErrNotFound)
	}
	return p, nil
}

func (s *state) CreateProduct(ctx context.Context, p shop.Product) (shop.Product, error) {
	p.ID = s.next()
	s.products[p.ID] = p
	return p, nil
}

func (s *state) CreateCart(ctx context.Context) (shop.Cart, error) {
	c := shop.Cart{ID: s.next(), CreatedAt: time.Now().UTC()}
	s.carts[c.ID] = c
	return c, nil
}

func (s *state) GetCart(ctx context.Context, id int64) (shop.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return shop.Cart{}, fmt.Errorf("cart %d: %w", id, shop.ErrNotFound)
	}
	return c, nil
}

func (s *state) IncrementCartItem(ctx context.Context, cartID, productID int64) (shop.CartItem, error) {
	k := cartKey{cartID, productID}
	it, ok := s.cartItems[k]
	if !ok {
		it = shop.CartItem{ID: s.next(), CartID: cartID, ProductID: productID}
	}
	it.Quantity++
	s.cartItems[k] = it
	return it, nil
}

func (s *state) CartLines(ctx context.Context, cartID int64) ([]shop.CartLine, error) {
	out := []shop.CartLine{}
	for k, it := range s.cartItems {
		if k.cartID != cartID {
			continue
		}
		out = append(out, shop.CartLine{Item: it, Product: s.products[it.ProductID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out, nil
}

func (s *state) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	if err := s.fail["ClearCart"]; err != nil {
		return 0, err
	}
	var n int64
	for k := range s.cartItems {
		if k.cartID == cartID {
			delete(s.cartItems, k)
			n++
		}
	}
	return n, nil
}

func (s *state) InsertOrder(ctx context.Context, o shop.Order) (shop.Order, error) {
	if err := s.fail["InsertOrder"]; err != nil {
		return shop.Order{}, err
	}
	now := time.Now().UTC()
	o.ID = s.next()
	o.CreatedAt, o.UpdatedAt = now, now
	o.Items = nil
	s.orders[o.ID] = o
	return o, nil
}

func (s *state) InsertOrderItem(ctx context.Context, it shop.OrderItem) (shop.OrderItem, error) {
	if err := s.fail["InsertOrderItem"]; err != nil {
		return shop.OrderItem{}, err
	}
	it.ID = s.next()
	s.orderItems[it.ID] = it
	return it, nil
}

func (s *state) GetOrder(ctx context.Context, id int64) (shop.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return shop.Order{}, fmt.Errorf("order %d: %w", id, shop.ErrNotFound)
	}
	o.Items = []shop.OrderItem{}
	for _, it := range s.orderItems {
		if it.OrderID == id {
			o.Items = append(o.Items, it)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })
	return o, nil
}
