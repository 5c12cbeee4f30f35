package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// feedClient is one websocket subscriber to a game's roster.
type feedClient struct {
	ID     string
	GameID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// HandleRosterFeed streams a game's roster. The current snapshot is sent on
// connect and again whenever the stored version changes.
func (h *Handler) HandleRosterFeed(c *gin.Context) {
	gameID := c.Param("gameId")

	// Validate game exists before upgrading
	game, err := h.games.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &feedClient{
		ID:     uuid.New().String(),
		GameID: gameID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	log.Printf("Feed client %s subscribed to game %s", client.ID, gameID)

	// The request context ends when this handler returns.
	ctx, cancel := context.WithCancel(context.Background())

	go client.writePump()
	go client.pollRoster(ctx, h.games, h.opts.RosterPollInterval, game)
	go client.readPump(cancel)
}

// pollRoster is the only sender on c.Send and closes it on return.
func (c *feedClient) pollRoster(ctx context.Context, games *services.GameService, interval time.Duration, game *models.Game) {
	defer close(c.Send)

	c.send(models.SnapshotOf(game))
	last := game.Version

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		g, err := games.GetGame(ctx, c.GameID)
		if errors.Is(err, services.ErrNotFound) {
			c.send(models.FeedMessage{Type: models.FeedTypeError, GameID: c.GameID, Error: "game not found"})
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Feed poll for game %s failed: %v", c.GameID, err)
			continue
		}
		if g.Version == last {
			continue
		}
		last = g.Version
		c.send(models.SnapshotOf(g))
	}
}

// readPump discards client messages and cancels the feed once the peer goes away.
func (c *feedClient) readPump(cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.Conn.Close()
		log.Printf("Feed client %s left game %s", c.ID, c.GameID)
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *feedClient) send(msg models.FeedMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case c.Send <- data:
	default:
		log.Printf("Failed to send message to feed client %s, buffer full", c.ID)
	}
}
