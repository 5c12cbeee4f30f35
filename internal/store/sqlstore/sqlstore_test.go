package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mossy-p/ballo/internal/store"
	"github.com/mossy-p/ballo/internal/store/storetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestStore opens a private in-memory SQLite database per test.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s, err := New(db)
	if err != nil {
		t.Fatalf("Failed to initialize test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupTestStore(t)
	})
}

func TestCreateSameIDConcurrently(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		exists  int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, store.CollectionEmails, "race@ballo.app", []byte(fmt.Sprintf(`{"userId":"u%d"}`, i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, store.ErrAlreadyExists):
				exists++
			default:
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 1 || exists != writers-1 {
		t.Fatalf("created = %d, already exists = %d, want 1 and %d", created, exists, writers-1)
	}
}

func TestDuplicateKeyTranslated(t *testing.T) {
	s := setupTestStore(t)
	rec := DocumentRecord{Collection: store.CollectionUsers, ID: "u1", Version: 1, Data: `{}`}
	if err := s.db.Create(&rec).Error; err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	dup := DocumentRecord{Collection: store.CollectionUsers, ID: "u1", Version: 1, Data: `{}`}
	if err := s.db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate insert error = %v, want gorm.ErrDuplicatedKey", err)
	}
}
