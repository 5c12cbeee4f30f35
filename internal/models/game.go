package models

import (
	"errors"
	"fmt"
	"time"
)

// GameLevel is the skill level a game is aimed at
type GameLevel string

const (
	LevelBeginner     GameLevel = "Beginner"
	LevelIntermediate GameLevel = "Intermediate"
	LevelAdvanced     GameLevel = "Advanced"
	LevelAll          GameLevel = "All Levels"
)

func (l GameLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return true
	}
	return false
}

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	GameStatusUpcoming   GameStatus = "upcoming"
	GameStatusInProgress GameStatus = "in-progress"
	GameStatusCompleted  GameStatus = "completed"
	GameStatusCancelled  GameStatus = "cancelled"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusUpcoming, GameStatusInProgress, GameStatusCompleted, GameStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s GameStatus) Terminal() bool {
	return s == GameStatusCompleted || s == GameStatusCancelled
}

// CanTransitionTo allows upcoming -> in-progress -> completed and
// upcoming -> cancelled.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	switch s {
	case GameStatusUpcoming:
		return next == GameStatusInProgress || next == GameStatusCancelled
	case GameStatusInProgress:
		return next == GameStatusCompleted
	}
	return false
}

// Player is one roster entry
type Player struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

// UserRef identifies the user who created a record
type UserRef struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Game is a scheduled pick-up session at a park
type Game struct {
	ID             string     `json:"id"`
	ParkID         string     `json:"parkId"`
	ParkName       string     `json:"parkName"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	MaxPlayers     int        `json:"maxPlayers"`
	CurrentPlayers []Player   `json:"currentPlayers"`
	Level          GameLevel  `json:"level"`
	Status         GameStatus `json:"status"`
	Description    string     `json:"description,omitempty"`
	Price          float64    `json:"price,omitempty"`
	CreatedBy      UserRef    `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Version        int64      `json:"version"`
}

// HasPlayer reports whether userID is on the roster.
func (g *Game) HasPlayer(userID string) bool {
	return g.playerIndex(userID) >= 0
}

// Full reports whether the roster is at capacity.
func (g *Game) Full() bool {
	return len(g.CurrentPlayers) >= g.MaxPlayers
}

// SpotsLeft returns the number of open roster places.
func (g *Game) SpotsLeft() int {
	return max(g.MaxPlayers-len(g.CurrentPlayers), 0)
}

// WithPlayer returns a new roster with p appended.
func (g *Game) WithPlayer(p Player) []Player {
	roster := make([]Player, 0, len(g.CurrentPlayers)+1)
	roster = append(roster, g.CurrentPlayers...)
	return append(roster, p)
}

// WithoutPlayer returns a new roster with userID removed.
func (g *Game) WithoutPlayer(userID string) []Player {
	roster := make([]Player, 0, len(g.CurrentPlayers))
	for _, p := range g.CurrentPlayers {
		if p.UserID != userID {
			roster = append(roster, p)
		}
	}
	return roster
}

func (g *Game) playerIndex(userID string) int {
	for i, p := range g.CurrentPlayers {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

// Validate checks the stored shape and the roster invariants.
func (g *Game) Validate() error {
	if g.ParkID == "" {
		return errors.New("game park ID is required")
	}
	if g.MaxPlayers <= 0 {
		return ErrMaxPlayersInvalid
	}
	if !g.Level.Valid() {
		return fmt.Errorf("invalid game level %q", g.Level)
	}
	if !g.Status.Valid() {
		return fmt.Errorf("invalid game status %q", g.Status)
	}
	if len(g.CurrentPlayers) > g.MaxPlayers {
		return fmt.Errorf("roster has %d players, capacity is %d", len(g.CurrentPlayers), g.MaxPlayers)
	}
	seen := make(map[string]struct{}, len(g.CurrentPlayers))
	for _, p := range g.CurrentPlayers {
		if p.UserID == "" {
			return errors.New("roster entry without user ID")
		}
		if _, dup := seen[p.UserID]; dup {
			return fmt.Errorf("duplicate roster entry for user %s", p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}
	return nil
}

// CreateGameInput is the request body for scheduling a game
type CreateGameInput struct {
	Date        string    `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	MaxPlayers  int       `json:"maxPlayers" binding:"required,min=1,max=100"`
	Level       GameLevel `json:"level" binding:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" binding:"min=0"`
}

// Validate checks the input independently of the HTTP binding.
func (in CreateGameInput) Validate() error {
	if in.Date == "" {
		return errors.New("game date is required")
	}
	if in.Time == "" {
		return errors.New("game time is required")
	}
	if in.MaxPlayers <= 0 {
		return ErrMaxPlayersInvalid
	}
	if !in.Level.Valid() {
		return fmt.Errorf("invalid game level %q", in.Level)
	}
	if in.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

var ErrMaxPlayersInvalid = errors.New("max players must be greater than 0")
