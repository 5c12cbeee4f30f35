// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mossy-p/ballo/internal/store"
	"github.com/tidwall/gjson"
)

// Run exercises a Store built by newStore. Each subtest gets a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc, err := s.Create(ctx, store.CollectionGames, "", []byte(`{"parkId":"p1"}`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if doc.ID == "" {
			t.Fatal("Create() returned empty ID")
		}
		if doc.Version != 1 {
			t.Fatalf("Create() version = %d, want 1", doc.Version)
		}

		got, err := s.Get(ctx, store.CollectionGames, doc.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if gjson.GetBytes(got.Data, "parkId").String() != "p1" {
			t.Errorf("Get() data = %s", got.Data)
		}
		if got.Version != 1 {
			t.Errorf("Get() version = %d, want 1", got.Version)
		}
	})

	t.Run("create with fixed id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.Create(ctx, store.CollectionEmails, "dana@example.com", []byte(`{"userId":"u1"}`)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		_, err := s.Create(ctx, store.CollectionEmails, "dana@example.com", []byte(`{"userId":"u2"}`))
		if !errors.Is(err, store.ErrAlreadyExists) {
			t.Fatalf("second Create() error = %v, want ErrAlreadyExists", err)
		}
		got, err := s.Get(ctx, store.CollectionEmails, "dana@example.com")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if gjson.GetBytes(got.Data, "userId").String() != "u1" {
			t.Errorf("document overwritten: %s", got.Data)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), store.CollectionGames, "nope")
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("conditional update", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc, err := s.Create(ctx, store.CollectionGames, "", []byte(`{"status":"upcoming"}`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		updated, err := s.Update(ctx, store.CollectionGames, doc.ID, store.Patch{"status": "cancelled"}, 1)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Version != 2 {
			t.Errorf("Update() version = %d, want 2", updated.Version)
		}
		if gjson.GetBytes(updated.Data, "status").String() != "cancelled" {
			t.Errorf("Update() data = %s", updated.Data)
		}

		_, err = s.Update(ctx, store.CollectionGames, doc.ID, store.Patch{"status": "completed"}, 1)
		if !errors.Is(err, store.ErrVersionConflict) {
			t.Fatalf("stale Update() error = %v, want ErrVersionConflict", err)
		}

		got, err := s.Get(ctx, store.CollectionGames, doc.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Version != 2 || gjson.GetBytes(got.Data, "status").String() != "cancelled" {
			t.Errorf("stale update leaked: version=%d data=%s", got.Version, got.Data)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(context.Background(), store.CollectionGames, "nope", store.Patch{"a": 1}, 1)
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Update() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("find with predicate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, body := range []string{
			`{"parkId":"p1","status":"upcoming"}`,
			`{"parkId":"p1","status":"cancelled"}`,
			`{"parkId":"p2","status":"upcoming"}`,
		} {
			if _, err := s.Create(ctx, store.CollectionGames, "", []byte(body)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}
		if _, err := s.Create(ctx, store.CollectionParks, "", []byte(`{"parkId":"p1","status":"upcoming"}`)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		docs, err := s.Find(ctx, store.CollectionGames, store.All(
			store.Where("parkId", "p1"),
			store.Where("status", "upcoming"),
		))
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("Find() returned %d docs, want 1", len(docs))
		}

		all, err := s.Find(ctx, store.CollectionGames, nil)
		if err != nil {
			t.Fatalf("Find(nil) error = %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Find(nil) returned %d docs, want 3", len(all))
		}

		none, err := s.Find(ctx, "unknown", nil)
		if err != nil {
			t.Fatalf("Find(unknown) error = %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("Find(unknown) returned %d docs, want 0", len(none))
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc, err := s.Create(ctx, store.CollectionParks, "", []byte(`{"name":"Riverside"}`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := s.Delete(ctx, store.CollectionParks, doc.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, store.CollectionParks, doc.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, store.CollectionParks, doc.ID); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
		}
		docs, err := s.Find(ctx, store.CollectionParks, nil)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(docs) != 0 {
			t.Fatalf("Find() after delete returned %d docs", len(docs))
		}
	})

	t.Run("concurrent updates on one version", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		doc, err := s.Create(ctx, store.CollectionGames, "", []byte(`{"count":0}`))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Update(ctx, store.CollectionGames, doc.ID, store.Patch{"count": i}, doc.Version)
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				if !errors.Is(err, store.ErrVersionConflict) {
					t.Errorf("Update() error = %v, want nil or ErrVersionConflict", err)
				}
			}(i)
		}
		wg.Wait()

		if succeeded != 1 {
			t.Fatalf("%d writers succeeded against the same version, want 1", succeeded)
		}
		got, err := s.Get(ctx, store.CollectionGames, doc.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Version != 2 {
			t.Fatalf("version = %d, want 2", got.Version)
		}
	})
}
