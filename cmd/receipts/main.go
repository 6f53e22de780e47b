package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/receipts"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/shop"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &receipts.Service{
		Dedup: &redisx.Dedup{RDB: rdb, Service: "receipts"},
		Out:   os.Stdout,
	}

	group := getenv("RECEIPTS_GROUP", "receipts-svc")
	workers, err := strconv.Atoi(getenv("RECEIPTS_WORKERS", "4"))
	if err != nil {
		workers = 1
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, shop.TopicOrderPlaced, workers)

	log.Printf("receipts consumer started: group=%s topic=%s workers=%d", group, shop.TopicOrderPlaced, workers)
	if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
		log.Fatalf("consumer exit: %v", err)
	}
	log.Println("receipts consumer stopped")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
