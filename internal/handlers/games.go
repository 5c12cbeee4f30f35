package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/models"
)

// rosterResponse is returned by join and leave
type rosterResponse struct {
	GameID         string          `json:"gameId"`
	CurrentPlayers []models.Player `json:"currentPlayers"`
}

// ListGames lists upcoming games, optionally filtered by ?date=YYYY-MM-DD (public)
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.games.ListUpcomingGames(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame gets a game by ID (public)
func (h *Handler) GetGame(c *gin.Context) {
	game, err := h.games.GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// ListParkGames lists the upcoming games at a park (public)
func (h *Handler) ListParkGames(c *gin.Context) {
	games, err := h.games.ListParkGames(c.Request.Context(), c.Param("parkId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// CreateGame schedules a game at a park (requires JWT, park owner or admin)
func (h *Handler) CreateGame(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	var in models.CreateGameInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	game, err := h.games.CreateGame(c.Request.Context(), user, c.Param("parkId"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// JoinGame adds the caller to the roster (requires JWT)
func (h *Handler) JoinGame(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	gameID := c.Param("gameId")
	roster, err := h.games.JoinGame(c.Request.Context(), gameID, user.Ref())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rosterResponse{GameID: gameID, CurrentPlayers: roster})
}

// LeaveGame removes the caller from the roster (requires JWT)
func (h *Handler) LeaveGame(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	gameID := c.Param("gameId")
	roster, err := h.games.LeaveGame(c.Request.Context(), gameID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rosterResponse{GameID: gameID, CurrentPlayers: roster})
}

// CancelGame cancels a game (requires JWT, organiser only)
func (h *Handler) CancelGame(c *gin.Context) {
	h.manageGame(c, func(ctx context.Context, gameID string) (*models.Game, error) {
		if err := h.games.CancelGame(ctx, gameID); err != nil {
			return nil, err
		}
		return h.games.GetGame(ctx, gameID)
	})
}

// StartGame marks a game in progress (requires JWT, organiser only)
func (h *Handler) StartGame(c *gin.Context) {
	h.manageGame(c, h.games.StartGame)
}

// CompleteGame marks a game completed (requires JWT, organiser only)
func (h *Handler) CompleteGame(c *gin.Context) {
	h.manageGame(c, h.games.CompleteGame)
}

func (h *Handler) manageGame(c *gin.Context, op func(ctx context.Context, gameID string) (*models.Game, error)) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	gameID := c.Param("gameId")
	if err := h.games.CanManageGame(ctx, user, gameID); err != nil {
		respondError(c, err)
		return
	}

	game, err := op(ctx, gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
