package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"somthing-shop/internal/cache"
	"somthing-shop/internal/client"
	"somthing-shop/internal/config"
	"somthing-shop/internal/middleware"
	"somthing-shop/internal/notify"
	"somthing-shop/internal/outbox"
	"somthing-shop/internal/repository"
	"somthing-shop/internal/server"
	"somthing-shop/internal/service"
	"somthing-shop/internal/storage"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		logger.Error("init database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var publisher outbox.Publisher = outbox.NewNopPublisher()
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := client.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			logger.Error("connect rabbitmq", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rabbit.Close()
		publisher = rabbit
	} else {
		logger.Info("RABBITMQ_URL not set, activity entries stay in the outbox")
	}

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	queryCache := cache.New(cfg.Cache.TTL)
	notifier := notify.NewLogNotifier(logger)
	objectStore := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.PublicURL)
	relay := outbox.NewRelay(activityRepo, publisher, logger, cfg.Outbox.Interval, cfg.Outbox.BatchSize)

	mutator := service.NewMutator(db, activityRepo, queryCache, notifier, relay, middleware.RecordMutation)

	services := server.Services{
		Product:   service.NewProductService(mutator, queryCache, productRepo, objectStore, notifier),
		Category:  service.NewCategoryService(mutator, queryCache, categoryRepo, productRepo),
		Order:     service.NewOrderService(mutator, queryCache, orderRepo),
		Coupon:    service.NewCouponService(mutator, queryCache, couponRepo),
		Customer:  service.NewCustomerService(queryCache, customerRepo),
		Activity:  service.NewActivityService(queryCache, activityRepo),
		Dashboard: service.NewDashboardService(queryCache, productRepo, orderRepo, customerRepo, couponRepo),
		Shop:      service.NewShopService(db, queryCache, productRepo, orderRepo, couponRepo, logger),
	}

	srv := server.NewServer(services, server.Options{
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		StorageDir: cfg.Storage.Dir,
		Profiles:   customerRepo,
		Cache:      queryCache,
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", slog.String("addr", serverAddr), slog.String("env", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	// one last pass so entries committed during shutdown are not left for the next start
	if n, err := relay.Flush(shutdownCtx); err != nil {
		logger.Warn("final outbox flush", slog.Int("published", n), slog.String("error", err.Error()))
	}
}
