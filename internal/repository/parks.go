package repository

import (
	"context"

	"github.com/mossy-p/ballo/internal/models"
	"github.com/mossy-p/ballo/internal/store"
)

// Parks reads and writes park documents.
type Parks struct {
	store store.Store
}

func NewParks(s store.Store) *Parks {
	return &Parks{store: s}
}

func (r *Parks) Create(ctx context.Context, p *models.Park) (*models.Park, error) {
	data, err := encode(p)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Create(ctx, store.CollectionParks, "", data)
	if err != nil {
		return nil, err
	}
	return decodePark(doc)
}

func (r *Parks) Get(ctx context.Context, id string) (*models.Park, error) {
	doc, err := r.store.Get(ctx, store.CollectionParks, id)
	if err != nil {
		return nil, err
	}
	return decodePark(doc)
}

func (r *Parks) Update(ctx context.Context, p *models.Park, patch store.Patch) (*models.Park, error) {
	doc, err := r.store.Update(ctx, store.CollectionParks, p.ID, patch, p.Version)
	if err != nil {
		return nil, err
	}
	return decodePark(doc)
}

func (r *Parks) Find(ctx context.Context, pred store.Predicate) ([]models.Park, error) {
	docs, err := r.store.Find(ctx, store.CollectionParks, pred)
	if err != nil {
		return nil, err
	}
	parks := make([]models.Park, 0, len(docs))
	for i := range docs {
		p, err := decodePark(&docs[i])
		if err != nil {
			return nil, err
		}
		parks = append(parks, *p)
	}
	return parks, nil
}

func (r *Parks) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionParks, id)
}

func decodePark(doc *store.Document) (*models.Park, error) {
	var p models.Park
	if err := decodeInto(doc, &p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	p.Version = doc.Version
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Documents == nil {
		p.Documents = []models.ParkDocument{}
	}
	return &p, nil
}
