package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/middleware"
)

// NewRouter wires every route onto a gin engine.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Global CORS middleware (runs before routing)
	router.Use(OriginFilter(allowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(h.opts.JWTSecret)

	api := router.Group("/api")
	{
		// Public
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/games", h.ListGames)
		api.GET("/games/:gameId", h.GetGame)
		api.GET("/parks/:parkId", h.GetPark)
		api.GET("/parks/:parkId/games", h.ListParkGames)

		// Authenticated
		authed := api.Group("", auth)
		authed.GET("/me", h.Me)
		authed.POST("/me/park-owner", h.BecomeParkOwner)
		authed.GET("/me/games", h.MyGames)
		authed.GET("/me/parks", h.MyParks)

		authed.POST("/games/:gameId/join", h.JoinGame)
		authed.POST("/games/:gameId/leave", h.LeaveGame)
		authed.POST("/games/:gameId/cancel", h.CancelGame)
		authed.POST("/games/:gameId/start", h.StartGame)
		authed.POST("/games/:gameId/complete", h.CompleteGame)

		authed.POST("/parks", h.CreatePark)
		authed.PATCH("/parks/:parkId", h.UpdatePark)
		authed.DELETE("/parks/:parkId", h.DeletePark)
		authed.POST("/parks/:parkId/games", h.CreateGame)

		authed.GET("/admin/parks/pending", h.ListPendingParks)
		authed.POST("/admin/parks/:parkId/review", h.ReviewPark)
	}

	// Live roster feed
	ws := router.Group("/ws")
	{
		ws.GET("/games/:gameId", h.HandleRosterFeed)
	}

	return router
}
