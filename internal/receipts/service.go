package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/shop"
)

type Dedup interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// Service writes one receipt line per placed order.
type Service struct {
	Dedup Dedup
	Out   io.Writer
}

// HandleOrderPlaced: dipasang sebagai handler consumer.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env shop.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Printf("receipts: skip undecodable message offset=%d: %v", m.Offset, err)
		return nil // poison message, commit & lanjut
	}
	if env.EventType != shop.EventOrderPlaced {
		return nil
	}

	// 2) dedup pakai event_id
	first, err := s.Dedup.FirstSeen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	// 3) decode payload
	p, err := kafkax.UnwrapPayload[shop.OrderPlacedPayload](env.Payload)
	if err != nil {
		log.Printf("receipts: event %s: %v", env.EventID, err)
		return nil
	}

	if err := s.write(p, env.TraceID); err != nil {
		_ = s.Dedup.Forget(ctx, env.EventID)
		return err
	}
	return nil
}

func (s *Service) write(p shop.OrderPlacedPayload, trace string) error {
	if _, err := fmt.Fprintf(s.Out, "receipt order=%d customer=%q total=%s items=%d trace=%s\n",
		p.OrderID, p.Customer, p.TotalPrice.StringFixed(2), len(p.Items), trace); err != nil {
		return err
	}
	for _, it := range p.Items {
		if _, err := fmt.Fprintf(s.Out, "  %dx %s @ %s\n", it.Quantity, it.ProductName, it.UnitPrice.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}
