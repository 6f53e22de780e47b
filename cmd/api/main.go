package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/shop"
	"github.com/ariefcatur/go-storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis (catalog cache)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &shop.Service{
		Store: &shop.Repo{DB: db},
		Cache: &redisx.CatalogCache{RDB: rdb},
		Name:  cfg.ServiceName,
	}

	// Kafka producer, opsional
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicOrderPlaced, 1024)
		prod.Start()
		svc.Events = prod
	} else {
		log.Println("KAFKA_BROKERS empty, order events disabled")
	}

	h := &httpx.ShopHandler{
		Service:  svc,
		Sessions: httpx.NewSessionBinder(cfg.SessionSecret, cfg.SessionMaxAge, false),
		Auth:     &httpx.Authenticator{Secret: []byte(cfg.JWTSecret)},
	}
	if cfg.MinioEndpoint != "" {
		img, err := storage.NewImages(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioSecure)
		if err != nil {
			log.Fatalf("minio: %v", err)
		}
		h.Images = img
	}

	router := httpx.NewRouter()
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush sisa event sebelum exit
	}
}
