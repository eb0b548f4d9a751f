package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/deliverly/cart-service/api/controllers"
	"github.com/deliverly/cart-service/api/routes"
	cartsvc "github.com/deliverly/cart-service/internal/cart"
	"github.com/deliverly/cart-service/internal/checkout"
	"github.com/deliverly/cart-service/internal/menu"
	"github.com/deliverly/cart-service/pkg/config"
	"github.com/deliverly/cart-service/pkg/db"
	"github.com/deliverly/cart-service/pkg/logger"
	"github.com/deliverly/cart-service/pkg/metrics"
	"github.com/deliverly/cart-service/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	cartMetrics := metrics.NewCartMetrics(prometheus.DefaultRegisterer)

	var (
		store     cartsvc.Store
		readiness []controllers.Pinger
	)
	switch cfg.Cart.NormalizedBackend() {
	case config.CartBackendRedis:
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store, err = cartsvc.NewRedisStore(redisClient, cfg.Cart.SnapshotTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create redis cart store", err)
			os.Exit(1)
		}
		readiness = append(readiness, redisClient)
	case config.CartBackendDatabase:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		gormStore, err := cartsvc.NewGormStore(dbClient.DB())
		if err != nil {
			logg.Error(context.Background(), "failed to create database cart store", err)
			os.Exit(1)
		}
		if cfg.FeatureFlags.AutoMigrate {
			if err := gormStore.AutoMigrate(); err != nil {
				logg.Error(context.Background(), "failed to migrate cart snapshots", err)
				os.Exit(1)
			}
		}
		store = gormStore
		readiness = append(readiness, dbClient)
	default:
		store = cartsvc.NewMemoryStore()
	}

	cartManager, err := cartsvc.NewManager(store, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	menuClient, err := menu.NewClient(cfg.MenuAPI)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu client", err)
		os.Exit(1)
	}

	submitter, err := checkout.NewService(cfg.OrdersAPI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.NormalizedBackend(),
	})
	logg.Info(ctx, "starting cart api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, cartManager, menuClient, submitter, readiness...),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "cart api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
