package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's account (requires JWT)
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// BecomeParkOwner upgrades the caller to park owner (requires JWT)
func (h *Handler) BecomeParkOwner(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	updated, err := h.users.BecomeParkOwner(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MyGames lists the upcoming games the caller has joined (requires JWT)
func (h *Handler) MyGames(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	games, err := h.games.ListUserGames(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// MyParks lists the parks the caller registered (requires JWT)
func (h *Handler) MyParks(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	parks, err := h.parks.ListOwnerParks(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parks)
}
