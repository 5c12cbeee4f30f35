package models

// FeedType represents the type of a live roster feed message
type FeedType string

const (
	FeedTypeSnapshot FeedType = "snapshot"
	FeedTypeError    FeedType = "error"
)

// FeedMessage is pushed to roster feed subscribers whenever the game changes
type FeedMessage struct {
	Type           FeedType   `json:"type"`
	GameID         string     `json:"gameId"`
	Status         GameStatus `json:"status,omitempty"`
	MaxPlayers     int        `json:"maxPlayers,omitempty"`
	CurrentPlayers []Player   `json:"currentPlayers,omitempty"`
	SpotsLeft      int        `json:"spotsLeft"`
	Version        int64      `json:"version,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// SnapshotOf builds the feed message for the current state of g.
func SnapshotOf(g *Game) FeedMessage {
	return FeedMessage{
		Type:           FeedTypeSnapshot,
		GameID:         g.ID,
		Status:         g.Status,
		MaxPlayers:     g.MaxPlayers,
		CurrentPlayers: g.CurrentPlayers,
		SpotsLeft:      g.SpotsLeft(),
		Version:        g.Version,
	}
}
