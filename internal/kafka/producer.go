package kafka

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

// Producer buffers messages in an inbox and writes them from one goroutine,
// so Publish never waits on the broker.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	done    chan struct{}
	once    sync.Once
	version int
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
		version: 1,
	}
}

// Start runs the write loop until Close drains the inbox.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				log.Printf("kafka write topic=%s key=%s: %v", p.w.Topic, m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("kafka writer close: %v", err)
		}
	}()
}

// Publish enqueues a message. When the inbox is full the message is dropped
// and logged instead of blocking the caller.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
	default:
		log.Printf("kafka inbox full, dropping message key=%s", key)
	}
}

// PublishEvent publishes an envelope with the x-event-type / x-event-version headers.
func (p *Producer) PublishEvent(key []byte, eventType string, value []byte) {
	p.Publish(key, value,
		kafka.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafka.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(p.version))},
	)
}

// Close stops accepting messages, flushes what is buffered and waits for the
// writer to close. Publish must not be called after Close.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.inbox) })
	<-p.done
}
