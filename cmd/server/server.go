// cmd/server/server.go
// HTTP server setup with dependency injection

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SiRipo92/chess-manager/internal/api"
	"github.com/SiRipo92/chess-manager/internal/cache"
	"github.com/SiRipo92/chess-manager/internal/config"
	"github.com/SiRipo92/chess-manager/internal/middleware"
	"github.com/SiRipo92/chess-manager/internal/repository"
	"github.com/SiRipo92/chess-manager/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	logger *log.Logger
	server *http.Server
}

// New creates a new server with all dependencies wired.
func New(cfg *config.Config, repo *repository.Repository, c *cache.Cache, logger *log.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var hub *websocket.Hub
	if cfg.Features.EnableWebSocket {
		hub = websocket.NewHub(logger)
	}
	svc := api.NewTournamentService(repo, c, hub, cfg.Repository.DefaultRounds, logger)

	router := setupRouter(cfg, svc, hub, c, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{config: cfg, router: router, logger: logger, server: srv}
}

// setupRouter configures all routes and middleware.
func setupRouter(cfg *config.Config, svc *api.TournamentService, hub *websocket.Hub, c *cache.Cache, logger *log.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimiter(c))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	if cfg.Features.MaintenanceMode {
		router.Use(middleware.MaintenanceMode())
	}

	router.GET("/health", api.HealthCheck(cfg))

	v1 := router.Group("/api/v1")
	{
		api.RegisterAuthRoutes(v1, cfg)
		api.RegisterTournamentRoutes(v1, svc, cfg)
		api.RegisterStatsRoutes(v1, svc)
	}

	if hub != nil {
		go hub.Run()
		router.GET("/ws", middleware.OptionalAuth(cfg.Auth.JWTSecret), websocket.HandleConnection(hub))
	}

	return router
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("shutting down server...")
	return s.server.Shutdown(ctx)
}
