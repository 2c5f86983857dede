package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meninadelaco/storefront/internal/catalog"
	"github.com/meninadelaco/storefront/internal/config"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/memory"
	"github.com/meninadelaco/storefront/internal/postgres"
	"github.com/meninadelaco/storefront/internal/redisx"
	"github.com/meninadelaco/storefront/internal/stockworker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var provider catalog.Provider
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
		provider = &postgres.Store{DB: db}
	} else {
		// Without Postgres the worker mutates its own in-memory copy;
		// useful only for local smoke runs.
		provider = memory.New()
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pChanged := kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicStockChanged, 1024)
	pChanged.Start(ctx)
	pLow := kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicStockLow, 1024)
	pLow.Start(ctx)

	svc := &stockworker.Service{
		Provider:     provider,
		Redis:        rdb,
		StockChanged: pChanged,
		StockLow:     pLow,
		ServiceName:  cfg.ServiceName + "-stockworker",
	}

	group := getenv("STOCKWORKER_GROUP", "stockworker-svc")
	workers := mustAtoi(os.Getenv("STOCKWORKER_WORKERS"), "8")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, catalog.TopicOrderPlaced, workers)

	go func() {
		log.Printf("stock consumer started: group=%s topic=%s workers=%d", group, catalog.TopicOrderPlaced, workers)
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	pChanged.Close()
	pLow.Close()
	pChanged.WaitClosed()
	pLow.WaitClosed()
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
