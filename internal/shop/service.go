package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the storefront workflow: catalog reads, cart mutations and checkout.
// Every operation takes the cart id explicitly; binding it to a client session
// is the caller's job.
type Service struct {
	Store  Store
	Cache  CatalogCache   // optional
	Events EventPublisher // optional
	Name   string         // producer name on emitted events
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	if s.Cache != nil {
		if ps, ok := s.Cache.Products(ctx); ok {
			return ps, nil
		}
	}
	ps, err := s.Store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if s.Cache != nil {
		s.Cache.SetProducts(ctx, ps)
	}
	return ps, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	if s.Cache != nil {
		if p, ok := s.Cache.Product(ctx, id); ok {
			return p, nil
		}
	}
	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if s.Cache != nil {
		s.Cache.SetProduct(ctx, p)
	}
	return p, nil
}

// AddToCart adds one unit of productID to the cart and returns the cart id the
// caller should bind to its session. cartID == 0, or an id with no cart behind
// it, makes a new cart. A missing product fails before any cart is created.
func (s *Service) AddToCart(ctx context.Context, cartID, productID int64) (int64, error) {
	var resolved int64
	err := s.Store.InTx(ctx, func(q Queries) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			return err
		}

		cart, err := s.resolveCart(ctx, q, cartID)
		if err != nil {
			return err
		}
		if _, err := q.IncrementCartItem(ctx, cart.ID, productID); err != nil {
			return fmt.Errorf("increment cart item: %w", err)
		}
		resolved = cart.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return resolved, nil
}

func (s *Service) resolveCart(ctx context.Context, q Queries, cartID int64) (Cart, error) {
	if cartID > 0 {
		c, err := q.GetCart(ctx, cartID)
		if err == nil {
			return c, nil
		}
		if !isNotFound(err) {
			return Cart{}, err
		}
	}
	c, err := q.CreateCart(ctx)
	if err != nil {
		return Cart{}, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

// ViewCart computes line totals and the cart total fresh on every call.
func (s *Service) ViewCart(ctx context.Context, cartID int64) (CartView, error) {
	if _, err := s.Store.GetCart(ctx, cartID); err != nil {
		return CartView{}, err
	}
	lines, err := s.Store.CartLines(ctx, cartID)
	if err != nil {
		return CartView{}, fmt.Errorf("cart lines: %w", err)
	}
	total := priceLines(lines)
	return CartView{CartID: cartID, Lines: lines, Total: total}, nil
}

// CancelOrder empties the cart. The cart itself is kept, so the session keeps
// its id. Cancelling an empty cart is a no-op.
func (s *Service) CancelOrder(ctx context.Context, cartID int64) error {
	if _, err := s.Store.GetCart(ctx, cartID); err != nil {
		return err
	}
	if _, err := s.Store.ClearCart(ctx, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout turns the cart into an order in one transaction: the order, one
// order item per cart item, and emptying the cart all commit or none do.
func (s *Service) Checkout(ctx context.Context, cartID int64, customer, address string) (Order, error) {
	var order Order
	err := s.Store.InTx(ctx, func(q Queries) error {
		if _, err := q.GetCart(ctx, cartID); err != nil {
			return err
		}
		lines, err := q.CartLines(ctx, cartID)
		if err != nil {
			return fmt.Errorf("cart lines: %w", err)
		}

		o, err := q.InsertOrder(ctx, Order{
			Customer:   customer,
			Address:    address,
			TotalPrice: priceLines(lines),
		})
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		o.Items = make([]OrderItem, 0, len(lines))
		for _, l := range lines {
			pid := l.Product.ID
			it, err := q.InsertOrderItem(ctx, OrderItem{
				OrderID:     o.ID,
				ProductID:   &pid,
				ProductName: l.Product.Name,
				UnitPrice:   l.Product.Price,
				Quantity:    l.Item.Quantity,
			})
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
			o.Items = append(o.Items, it)
		}

		if _, err := q.ClearCart(ctx, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.publishPlaced(ctx, order)
	return order, nil
}

// GetOrder returns the order only to the customer who placed it; other
// customers get ErrNotFound. An empty customer skips the ownership check.
func (s *Service) GetOrder(ctx context.Context, orderID int64, customer string) (Order, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if customer != "" && o.Customer != customer {
		return Order{}, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return o, nil
}

// CreateProduct is used by catalog tooling, not by the storefront routes.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.Price.IsNegative() {
		return Product{}, errors.New("price must not be negative")
	}
	if p.Stock < 0 {
		return Product{}, errors.New("stock must not be negative")
	}
	out, err := s.Store.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return out, nil
}

func (s *Service) publishPlaced(ctx context.Context, o Order) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(NewOrderPlacedPayload(o))
	if err != nil {
		log.Printf("order %d: encode payload: %v", o.ID, err)
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		TraceID:       TraceID(ctx),
		CorrelationID: fmt.Sprint(o.ID),
		Payload:       payload,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("order %d: encode envelope: %v", o.ID, err)
		return
	}
	s.Events.PublishEvent(PartitionKey(o.ID), EventOrderPlaced, b)
}

func priceLines(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lineTotal(lines[i].Product.Price, lines[i].Item.Quantity)
		total = total.Add(lines[i].LineTotal)
	}
	return total
}
