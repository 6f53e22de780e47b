package httpx

import (
	"context"
	"log"
	"time"

	"github.com/ariefcatur/go-storefront/internal/shop"
)

// ImageURLer turns a stored image key into a URL clients can fetch.
type ImageURLer interface {
	URL(ctx context.Context, key string) (string, error)
}

type productView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description,omitempty"`
	Price            string `json:"price"`
	Stock            int    `json:"stock"`
	Image            string `json:"image"`
	ImageURL         string `json:"image_url,omitempty"`
}

type cartLineView struct {
	Product   productView `json:"product"`
	Quantity  int         `json:"quantity"`
	LineTotal string      `json:"line_total"`
}

type cartView struct {
	CartID int64          `json:"cart_id,omitempty"`
	Items  []cartLineView `json:"items"`
	Total  string         `json:"total"`
}

type checkoutFormView struct {
	Cart   cartView `json:"cart"`
	Fields []string `json:"fields"`
}

type orderItemView struct {
	ProductID   *int64 `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

type orderView struct {
	ID         int64           `json:"id"`
	Customer   string          `json:"customer"`
	Address    string          `json:"address"`
	TotalPrice string          `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []orderItemView `json:"items"`
}

func (h *ShopHandler) product(ctx context.Context, p shop.Product, long bool) productView {
	v := productView{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Price:            p.Price.StringFixed(2),
		Stock:            p.Stock,
		Image:            p.Image,
	}
	if long {
		v.LongDescription = p.LongDescription
	}
	if h.Images != nil && p.Image != "" {
		u, err := h.Images.URL(ctx, p.Image)
		if err != nil {
			log.Printf("image url product=%d: %v", p.ID, err)
		}
		v.ImageURL = u
	}
	return v
}

func (h *ShopHandler) cart(ctx context.Context, c shop.CartView) cartView {
	v := cartView{CartID: c.CartID, Items: make([]cartLineView, 0, len(c.Lines)), Total: c.Total.StringFixed(2)}
	for _, l := range c.Lines {
		v.Items = append(v.Items, cartLineView{
			Product:   h.product(ctx, l.Product, false),
			Quantity:  l.Item.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return v
}

func toOrderView(o shop.Order) orderView {
	v := orderView{
		ID:         o.ID,
		Customer:   o.Customer,
		Address:    o.Address,
		TotalPrice: o.TotalPrice.StringFixed(2),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      make([]orderItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, orderItemView{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal().StringFixed(2),
		})
	}
	return v
}
