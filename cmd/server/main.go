// cmd/server/main.go
// Entry point for the chess tournament server. Initializes the JSON
// repository and optional Redis cache, then starts the HTTP server.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SiRipo92/chess-manager/internal/cache"
	"github.com/SiRipo92/chess-manager/internal/config"
	"github.com/SiRipo92/chess-manager/internal/repository"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg.Environment)

	repo, err := repository.New(cfg.Repository.DataDir)
	if err != nil {
		logger.Fatalf("failed to open tournament store: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Printf("redis unavailable, rate limiting disabled: %v", err)
	}
	cancel()
	cacheLayer := cache.New(redisClient, logger)

	srv := New(cfg, repo, cacheLayer, logger)

	go func() {
		logger.Printf("starting server on port %s in %s mode", cfg.Server.Port, cfg.Environment)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	gracefulShutdown(srv, logger)
}

// setupLogger builds the process logger. The same configuration is
// used in every environment; env does not change it.
func setupLogger(env string) *log.Logger {
	return log.New(os.Stdout, "[chess-manager] ", log.LstdFlags|log.Lshortfile)
}

// gracefulShutdown handles graceful shutdown of the server.
func gracefulShutdown(srv *Server, logger *log.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("server forced to shutdown: %v", err)
	}

	logger.Println("server exited")
}
