package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mossy-p/ballo/config"
	"github.com/mossy-p/ballo/internal/handlers"
	"github.com/mossy-p/ballo/internal/redis"
	"github.com/mossy-p/ballo/internal/services"
	"github.com/mossy-p/ballo/internal/store"
	"github.com/mossy-p/ballo/internal/store/memory"
	"github.com/mossy-p/ballo/internal/store/sqlstore"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer docs.Close()

	log.Printf("%s store ready", cfg.Store.Driver)

	opts := services.DefaultOptions()
	opts.Timeout = cfg.Store.Timeout
	opts.MaxAttempts = cfg.Store.MaxAttempts
	opts.RetryInterval = cfg.Store.RetryInterval

	h := handlers.New(
		services.NewGameService(docs, opts),
		services.NewParkService(docs, opts),
		services.NewUserService(docs, cfg.AdminEmails, opts),
		handlers.Options{
			JWTSecret:          cfg.JWTSecret,
			TokenTTL:           cfg.TokenTTL,
			RosterPollInterval: cfg.RosterPollInterval,
		},
	)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(h, cfg.AllowedOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("Starting ballo server on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server:", err)
	}
	log.Println("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewDocumentStore(client), nil
	case config.DriverPostgres:
		s, err := sqlstore.Open(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		log.Println("Using in-memory store; data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
