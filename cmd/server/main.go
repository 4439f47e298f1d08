package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"order-sync/internal/config"
	"order-sync/internal/controllers/http"
	"order-sync/internal/infra/durable"
	mmysql "order-sync/internal/infra/mysql"
	"order-sync/internal/infra/rabbitmq"
	mysqlrepo "order-sync/internal/repository/mysql"
	"order-sync/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	if _, err := uuid.Parse(cfg.StoreID); err != nil {
		log.Fatalf("STORE_ID must be a UUID: %v", err)
	}

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	repo := mysqlrepo.NewOrderRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	listener := rabbitmq.NewListener(cfg.AMQPURL, cfg.Exchange)

	view := services.NewOrderViewService(repo)
	completion := services.NewCompletionService(repo, durable.NewRedisStore(redisClient), cfg.StoreID)
	completion.SetIntervals(cfg.DebounceInterval, cfg.SweepInterval)
	orders := services.NewOrderService(repo, publisher)
	archive := services.NewArchiveService(repo, cfg.ArchiveAfter, cfg.MaxCompleted)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completion.RecoverFromDurableStorage(ctx)

	go completion.Run(ctx)

	if err := view.Refresh(ctx, cfg.StoreID); err != nil {
		log.Printf("Initial order fetch failed, starting on empty view: %v", err)
	}

	err = listener.Subscribe(ctx, cfg.StoreID, func(orderID uint64) {
		log.Printf("New order %d detected, refreshing view", orderID)
		_ = view.Refresh(ctx, cfg.StoreID)
	})
	if err != nil {
		log.Printf("Change feed unavailable, continuing on stale data: %v", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.ArchiveInterval)
		defer ticker.Stop()
		if _, err := archive.Archive(ctx, cfg.StoreID); err != nil {
			log.Printf("Startup archival failed: %v", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := archive.Archive(ctx, cfg.StoreID); err != nil {
					log.Printf("Periodic archival failed: %v", err)
				}
			}
		}
	}()

	handler := http.NewHandler(cfg.StoreID, view, completion, orders, archive)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting order-sync on port %s (store %s)", cfg.Port, cfg.StoreID)
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			log.Fatalf("server run: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("Shutting down, flushing unsaved completed orders")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	// teardown flush; Flush serializes with the one completion.Run may be running
	if completion.Dirty() {
		if err := completion.Flush(shutdownCtx); err != nil {
			log.Printf("Final flush failed, durable snapshot retained: %v", err)
		}
	}
}
