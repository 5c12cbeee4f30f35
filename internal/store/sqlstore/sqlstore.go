// Package sqlstore keeps documents in a single gorm-managed table. Conditional
// writes are UPDATE ... WHERE version = ? statements.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mossy-p/ballo/config"
	"github.com/mossy-p/ballo/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DocumentRecord is the `documents` table.
type DocumentRecord struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:320"`
	Version    int64  `gorm:"not null"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DocumentRecord) TableName() string { return "documents" }

// Store is a store.Store on top of gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the documents table.
func Open(cfg config.PostgresConfig) (*Store, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// gormConfig turns on driver error translation so a unique violation
// surfaces as gorm.ErrDuplicatedKey.
func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// New wraps an open gorm handle and migrates the documents table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&DocumentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var rec DocumentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sql get %s/%s: %w", collection, id, err)
	}
	return toDocument(rec), nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data []byte) (*store.Document, error) {
	if id == "" {
		id = uuid.New().String()
	}
	rec := DocumentRecord{
		Collection: collection,
		ID:         id,
		Version:    1,
		Data:       string(data),
	}

	// The primary key decides a race between two creates of the same id.
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, store.ErrAlreadyExists
	}
	if res.Error != nil {
		return nil, fmt.Errorf("sql create %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrAlreadyExists
	}
	return toDocument(rec), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Patch, expectedVersion int64) (*store.Document, error) {
	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if current.Version != expectedVersion {
		return nil, store.ErrVersionConflict
	}

	data, err := store.ApplyPatch(current.Data, patch)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&DocumentRecord{}).
		Where("collection = ? AND id = ? AND version = ?", collection, id, expectedVersion).
		Updates(map[string]any{
			"data":       string(data),
			"version":    expectedVersion + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("sql update %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either deleted or written since our read.
		if _, err := s.Get(ctx, collection, id); errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, store.ErrVersionConflict
	}
	return &store.Document{ID: id, Version: expectedVersion + 1, Data: data}, nil
}

func (s *Store) Find(ctx context.Context, collection string, pred store.Predicate) ([]store.Document, error) {
	var recs []DocumentRecord
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("sql find %s: %w", collection, err)
	}

	docs := make([]store.Document, 0, len(recs))
	for _, rec := range recs {
		doc := toDocument(rec)
		if store.Match(pred, *doc) {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentRecord{})
	if res.Error != nil {
		return fmt.Errorf("sql delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toDocument(rec DocumentRecord) *store.Document {
	return &store.Document{ID: rec.ID, Version: rec.Version, Data: []byte(rec.Data)}
}
