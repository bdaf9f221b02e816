// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"github.com/SiRipo92/chess-manager/internal/config"
	"github.com/SiRipo92/chess-manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the operator login route.
func RegisterAuthRoutes(router *gin.RouterGroup, cfg *config.Config) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", HandleLogin(cfg))
	}
}

// RegisterTournamentRoutes registers every tournament lifecycle route.
// Reads are public; every mutation requires the operator bearer token.
func RegisterTournamentRoutes(router *gin.RouterGroup, svc *TournamentService, cfg *config.Config) {
	tournaments := router.Group("/tournaments")
	{
		tournaments.GET("", HandleListTournaments(svc))
		tournaments.GET("/:name", HandleGetTournament(svc))
		tournaments.GET("/:name/progress", HandleGetProgress(svc))

		protected := tournaments.Group("")
		protected.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			protected.POST("", HandleCreateTournament(svc))
			protected.POST("/:name/players", HandleAddPlayer(svc))
			protected.POST("/:name/rounds/first", HandleStartFirstRound(svc))
			protected.POST("/:name/rounds/next", HandleStartNextRound(svc))
			protected.POST("/:name/rounds/tiebreak", HandleStartTiebreakRound(svc))
			protected.POST("/:name/rounds/:round/matches/:match/result", HandleRecordMatchResult(svc))
			protected.POST("/:name/finish", HandleFinishTournament(svc))
		}
	}
}

// RegisterStatsRoutes registers the cross-tournament aggregated rollup.
func RegisterStatsRoutes(router *gin.RouterGroup, svc *TournamentService) {
	router.GET("/stats", HandleGetStats(svc))
}
