package shop

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "OrderPlaced"

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventOrderPlaced
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	ProductID   *int64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderPlacedPayload struct {
	OrderID    int64           `json:"order_id"`
	Customer   string          `json:"customer"`
	Address    string          `json:"address"`
	Items      []PlacedItem    `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PlacedAt   time.Time       `json:"placed_at"`
}

func NewOrderPlacedPayload(o Order) OrderPlacedPayload {
	items := make([]PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PlacedItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return OrderPlacedPayload{
		OrderID:    o.ID,
		Customer:   o.Customer,
		Address:    o.Address,
		Items:      items,
		TotalPrice: o.TotalPrice,
		PlacedAt:   o.CreatedAt,
	}
}
