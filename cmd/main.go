package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"kama/internal/config"
	"kama/internal/events"
	httpapi "kama/internal/http"
	"kama/internal/repository"
	"kama/internal/service"

	_ "kama/docs"
)

// @title Kama storefront API
// @version 1.0
// @BasePath /api
func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	stores, err := openStores(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	hub := events.NewHub()
	defer hub.Close()

	srv := httpapi.NewServer(httpapi.Services{
		Categories: service.NewCategoryService(stores.Categories, stores.Products, stores.Tx),
		Products:   service.NewProductService(stores.Products, stores.Categories),
		Orders:     service.NewOrderService(stores.Orders, stores.Tx, hub),
		Stats:      service.NewStatsService(stores.Categories, stores.Products, stores.Orders),
	}, hub, httpapi.Options{
		CORSOrigins:    cfg.CORSOrigins,
		OrderRateLimit: cfg.OrderRateLimit,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("HTTP server listening on %s (storage=%s)", httpServer.Addr, cfg.DBDriver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// websocket-соединения не закрываются через Shutdown, закрываем их сами
	hub.Close()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openStores(cfg config.Config) (repository.Stores, error) {
	if cfg.DBDriver == repository.DriverMemory {
		return repository.NewMemoryStores(), nil
	}
	db, err := repository.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return repository.Stores{}, err
	}
	return repository.NewGormStores(db), nil
}
