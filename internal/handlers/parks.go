package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/models"
)

// CreatePark submits a park for verification (requires JWT, park owner)
func (h *Handler) CreatePark(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	var in models.ParkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	park, err := h.parks.SubmitPark(c.Request.Context(), user, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, park)
}

// GetPark gets a park by ID (public)
func (h *Handler) GetPark(c *gin.Context) {
	park, err := h.parks.GetPark(c.Request.Context(), c.Param("parkId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, park)
}

// UpdatePark edits a park (requires JWT, owner only)
func (h *Handler) UpdatePark(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	var in models.ParkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	park, err := h.parks.UpdatePark(c.Request.Context(), user, c.Param("parkId"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, park)
}

// DeletePark deletes a park (requires JWT, owner or admin)
func (h *Handler) DeletePark(c *gin.Context) {
	user, ok := h.caller(c)
	if !ok {
		return
	}

	parkID := c.Param("parkId")
	if err := h.parks.DeletePark(c.Request.Context(), user, parkID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Park deleted"})
}

// ListPendingParks lists parks awaiting review (requires JWT, admin)
func (h *Handler) ListPendingParks(c *gin.Context) {
	if _, ok := h.admin(c); !ok {
		return
	}

	parks, err := h.parks.ListPendingParks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, parks)
}

// ReviewPark verifies or rejects a park (requires JWT, admin)
func (h *Handler) ReviewPark(c *gin.Context) {
	user, ok := h.admin(c)
	if !ok {
		return
	}

	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	park, err := h.parks.ReviewPark(c.Request.Context(), user, c.Param("parkId"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, park)
}
