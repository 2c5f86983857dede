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
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/meninadelaco/storefront/internal/auth"
	"github.com/meninadelaco/storefront/internal/cart"
	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/config"
	"github.com/meninadelaco/storefront/internal/httpx"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/memory"
	"github.com/meninadelaco/storefront/internal/postgres"
	"github.com/meninadelaco/storefront/internal/redisx"

	"github.com/google/uuid"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provider: Postgres when a DSN is configured, otherwise the seeded
	// in-memory mock.
	var provider catalog.Provider
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		provider = &postgres.Store{DB: db}
		log.Printf("provider: postgres")
	} else {
		provider = memory.New(memory.WithLatency(cfg.MockLatency))
		log.Printf("provider: in-memory mock (latency=%s)", cfg.MockLatency)
	}

	// Redis is optional: session cache + product read cache when set.
	var rdb *redis.Client
	var sessions auth.SessionCache
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		sessions = &redisx.SessionCache{R: rdb}
	} else {
		sessions = auth.NewMemoryCache()
	}

	// Mock auth: one admin plus one regular customer account.
	svc := auth.NewMock(cfg.JWTSecret, cfg.SessionTTL, sessions, auth.WithLatency(cfg.MockLatency))
	must(svc.Register(catalog.User{Email: cfg.AdminEmail, IsAdmin: true}, cfg.AdminPassword))
	must(svc.Register(catalog.User{Email: "cliente@example.com"}, "cliente123"))

	// Kafka producers, one per topic. Without brokers the handlers run
	// with nil producers and skip publishing.
	var pOrder, pStock, pLow, pCart, pContact *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		pOrder = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicOrderPlaced, 1024)
		pStock = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicStockChanged, 1024)
		pLow = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicStockLow, 1024)
		pCart = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicCartActivity, 1024)
		pContact = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicContact, 1024)
		for _, p := range []*kafkax.Producer{pOrder, pStock, pLow, pCart, pContact} {
			p.Start(ctx)
		}
	}

	// One cart per process. Its change hook feeds the activity topic.
	basket := cart.New()
	if pCart != nil {
		basket.Notify(func(ev cart.Event) {
			etype := catalog.EventCartItemAdd
			if ev.Type == cart.EventRemoved {
				etype = catalog.EventCartItemDrop
			}
			env := catalog.Envelope{
				EventID:       uuid.NewString(),
				EventType:     etype,
				EventVersion:  1,
				OccurredAt:    time.Now().UTC(),
				Producer:      cfg.ServiceName,
				CorrelationID: ev.Line.ProductID,
				Payload: kafkax.MustMarshal(catalog.CartItemPayload{
					ProductID: ev.Line.ProductID,
					Name:      ev.Line.Name,
					Variant:   ev.Line.Variant,
					Quantity:  ev.Line.Quantity,
				}),
			}
			pCart.Publish(catalog.PartitionKey(ev.Line.ProductID), kafkax.MustMarshal(env),
				kafkago.Header{Key: "x-event-type", Value: []byte(etype)},
				kafkago.Header{Key: "x-event-version", Value: []byte("1")},
			)
		})
	}

	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Provider: provider, Redis: rdb, Contact: pContact, Service: cfg.ServiceName}).Register(router)
	(&httpx.CartHandler{Cart: basket, Provider: provider}).Register(router)
	(&httpx.AuthHandler{Auth: svc}).Register(router)
	(&httpx.AdminHandler{
		Provider:     provider,
		Auth:         svc,
		Redis:        rdb,
		OrderPlaced:  pOrder,
		StockChanged: pStock,
		StockLow:     pLow,
		Service:      cfg.ServiceName,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

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

	for _, p := range []*kafkax.Producer{pOrder, pStock, pLow, pCart, pContact} {
		if p != nil {
			p.Close()
		}
	}
	cancel()
	for _, p := range []*kafkax.Producer{pOrder, pStock, pLow, pCart, pContact} {
		if p != nil {
			p.WaitClosed()
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
}
