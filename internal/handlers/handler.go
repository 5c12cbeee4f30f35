// Package handlers exposes the game, park and user services over HTTP and
// serves the live roster websocket feed.
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mossy-p/ballo/internal/apperrors"
	"github.com/mossy-p/ballo/internal/middleware"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/services"
)

const defaultPollInterval = 2 * time.Second

// Options carries the HTTP-layer settings.
type Options struct {
	JWTSecret          string
	TokenTTL           time.Duration
	RosterPollInterval time.Duration
}

// Handler holds the services behind every route.
type Handler struct {
	games *services.GameService
	parks *services.ParkService
	users *services.UserService
	opts  Options
}

func New(games *services.GameService, parks *services.ParkService, users *services.UserService, opts Options) *Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.RosterPollInterval <= 0 {
		opts.RosterPollInterval = defaultPollInterval
	}
	return &Handler{games: games, parks: parks, users: users, opts: opts}
}

// caller loads the authenticated user so role checks see the stored role,
// not whatever was true when the token was issued. It writes the error
// response itself and returns false on failure.
func (h *Handler) caller(c *gin.Context) (*models.User, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		respondError(c, services.ErrUnauthorized)
		return nil, false
	}
	user, err := h.users.GetUser(c.Request.Context(), id.UserID)
	if errors.Is(err, services.ErrNotFound) {
		respondError(c, apperrors.New(apperrors.CodeUnauthorized, "account no longer exists"))
		return nil, false
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return user, true
}

// admin is caller restricted to the admin role.
func (h *Handler) admin(c *gin.Context) (*models.User, bool) {
	user, ok := h.caller(c)
	if !ok {
		return nil, false
	}
	if user.Role != models.RoleAdmin {
		respondError(c, apperrors.New(apperrors.CodeForbidden, "admin role required"))
		return nil, false
	}
	return user, true
}
