// Package memory is an in-process Store used by tests and by the "memory"
// store driver for local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mossy-p/ballo/internal/store"
)

type entry struct {
	version int64
	data    []byte
}

// Store keeps documents in maps guarded by a single mutex.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]entry)}
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Document{ID: id, Version: e.version, Data: clone(e.data)}, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data []byte) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]entry)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		return nil, store.ErrAlreadyExists
	}
	docs[id] = entry{version: 1, data: clone(data)}
	return &store.Document{ID: id, Version: 1, Data: clone(data)}, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Patch, expectedVersion int64) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if e.version != expectedVersion {
		return nil, store.ErrVersionConflict
	}

	data, err := store.ApplyPatch(e.data, patch)
	if err != nil {
		return nil, err
	}
	next := entry{version: e.version + 1, data: data}
	s.collections[collection][id] = next
	return &store.Document{ID: id, Version: next.version, Data: clone(data)}, nil
}

func (s *Store) Find(ctx context.Context, collection string, pred store.Predicate) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]store.Document, 0)
	for id, e := range s.collections[collection] {
		doc := store.Document{ID: id, Version: e.version, Data: clone(e.data)}
		if store.Match(pred, doc) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *Store) Close() error { return nil }

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
