package repository

import (
	"context"

	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/store"
)

// Games reads and writes game documents.
type Games struct {
	store store.Store
}

func NewGames(s store.Store) *Games {
	return &Games{store: s}
}

// Create stores g and returns it with its assigned ID and version.
func (r *Games) Create(ctx context.Context, g *models.Game) (*models.Game, error) {
	data, err := encode(g)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Create(ctx, store.CollectionGames, "", data)
	if err != nil {
		return nil, err
	}
	return decodeGame(doc)
}

// Get returns the game or store.ErrNotFound.
func (r *Games) Get(ctx context.Context, id string) (*models.Game, error) {
	doc, err := r.store.Get(ctx, store.CollectionGames, id)
	if err != nil {
		return nil, err
	}
	return decodeGame(doc)
}

// Update applies patch conditionally on g.Version.
func (r *Games) Update(ctx context.Context, g *models.Game, patch store.Patch) (*models.Game, error) {
	doc, err := r.store.Update(ctx, store.CollectionGames, g.ID, patch, g.Version)
	if err != nil {
		return nil, err
	}
	return decodeGame(doc)
}

// Find returns the games matching pred and keep.
func (r *Games) Find(ctx context.Context, pred store.Predicate, keep func(*models.Game) bool) ([]models.Game, error) {
	docs, err := r.store.Find(ctx, store.CollectionGames, pred)
	if err != nil {
		return nil, err
	}
	games := make([]models.Game, 0, len(docs))
	for i := range docs {
		g, err := decodeGame(&docs[i])
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(g) {
			games = append(games, *g)
		}
	}
	return games, nil
}

func decodeGame(doc *store.Document) (*models.Game, error) {
	var g models.Game
	if err := decodeInto(doc, &g); err != nil {
		return nil, err
	}
	g.ID = doc.ID
	g.Version = doc.Version
	if g.CurrentPlayers == nil {
		g.CurrentPlayers = []models.Player{}
	}
	return &g, nil
}
