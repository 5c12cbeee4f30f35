package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mossy-p/ballo/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// findBatchSize bounds the number of keys fetched per MGET in Find.
const findBatchSize = 100

// envelope is the value stored under each document key.
type envelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// DocumentStore stores each document as a JSON envelope under
// doc:{collection}:{id} and tracks ids per collection in the set
// index:{collection}. Conditional writes use WATCH/MULTI on the document key.
type DocumentStore struct {
	client *Client
}

// NewDocumentStore returns a store.Store backed by client.
func NewDocumentStore(client *Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func docKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func indexKey(collection string) string {
	return "index:" + collection
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	raw, err := s.client.Get(ctx, docKey(collection, id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	return decode(id, raw)
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, data []byte) (*store.Document, error) {
	if id == "" {
		id = uuid.New().String()
	}
	key := docKey(collection, id)
	value, err := json.Marshal(envelope{Version: 1, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	err = s.client.Watch(ctx, func(tx *goredis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return store.ErrAlreadyExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			pipe.SAdd(ctx, indexKey(collection), id)
			return nil
		})
		return err
	}, key)
	switch {
	case errors.Is(err, goredis.TxFailedErr):
		// The key changed between EXISTS and EXEC: another writer created it.
		return nil, store.ErrAlreadyExists
	case errors.Is(err, store.ErrAlreadyExists):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("redis create %s/%s: %w", collection, id, err)
	}

	return &store.Document{ID: id, Version: 1, Data: append([]byte(nil), data...)}, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch store.Patch, expectedVersion int64) (*store.Document, error) {
	key := docKey(collection, id)
	var updated *store.Document

	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decode(id, raw)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return store.ErrVersionConflict
		}

		data, err := store.ApplyPatch(current.Data, patch)
		if err != nil {
			return err
		}
		next := envelope{Version: current.Version + 1, Data: data}
		value, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &store.Document{ID: id, Version: next.Version, Data: data}
		return nil
	}, key)

	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, goredis.TxFailedErr):
		return nil, store.ErrVersionConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrVersionConflict):
		return nil, err
	default:
		return nil, fmt.Errorf("redis update %s/%s: %w", collection, id, err)
	}
}

func (s *DocumentStore) Find(ctx context.Context, collection string, pred store.Predicate) ([]store.Document, error) {
	ids, err := s.client.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index %s: %w", collection, err)
	}
	sort.Strings(ids)

	docs := make([]store.Document, 0, len(ids))
	for start := 0; start < len(ids); start += findBatchSize {
		end := min(start+findBatchSize, len(ids))
		batch := ids[start:end]

		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = docKey(collection, id)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("redis mget %s: %w", collection, err)
		}

		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				// Deleted between SMEMBERS and MGET.
				continue
			}
			doc, err := decode(batch[i], []byte(str))
			if err != nil {
				return nil, err
			}
			if store.Match(pred, *doc) {
				docs = append(docs, *doc)
			}
		}
	}
	return docs, nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	var del *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, docKey(collection, id))
		pipe.SRem(ctx, indexKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, id, err)
	}
	if del.Val() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close closes the Redis connection
func (s *DocumentStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func decode(id string, raw []byte) (*store.Document, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &store.Document{ID: id, Version: env.Version, Data: []byte(env.Data)}, nil
}
