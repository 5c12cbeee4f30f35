package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/middleware"
	"github.com/mossy-p/ballo/internal/models"
)

// Register creates an account and logs it in
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login checks credentials and issues a JWT
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.opts.JWTSecret, user, h.opts.TokenTTL)
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodeInternal, "failed to generate token", err))
		return
	}
	c.JSON(status, models.AuthResponse{Token: token, User: user})
}
