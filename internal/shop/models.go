package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"long_description"`
	Price            decimal.Decimal `json:"price"`
	Stock            int             `json:"stock"`
	Image            string          `json:"image"` // object key di bucket produk
}

type Cart struct {
	ID        int64
	CreatedAt time.Time
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
}

// CartLine is a cart item joined with its product. LineTotal is filled by the
// service on every read and never stored.
type CartLine struct {
	Item      CartItem
	Product   Product
	LineTotal decimal.Decimal
}

type CartView struct {
	CartID int64
	Lines  []CartLine
	Total  decimal.Decimal
}

func (v CartView) Empty() bool { return len(v.Lines) == 0 }

type Order struct {
	ID         int64
	Customer   string
	Address    string
	TotalPrice decimal.Decimal // snapshot saat checkout, tidak dihitung ulang
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Items      []OrderItem
}

// OrderItem keeps a copy of the product name and price at checkout time.
// ProductID becomes nil once the product is deleted from the catalog.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   *int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return lineTotal(it.UnitPrice, it.Quantity)
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
