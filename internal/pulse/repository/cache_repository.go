package repository

import (
	"context"
	"errors"
	"time"

	"marketpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewCacheRepository creates the postgres-backed cache store.
func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

type cacheRepository struct {
	db *gorm.DB
}

// Get retrieves a cache row by key.
func (r *cacheRepository) Get(ctx context.Context, key string) (string, int64, error) {
	var entry entity.CacheEntry
	err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, ErrCacheMiss
	}
	if err != nil {
		return "", 0, err
	}
	return entry.Value, entry.UpdatedAt, nil
}

// Set upserts a cache row. Value and timestamp are replaced in a single
// statement so readers never observe a half-written row; concurrent writers
// rely on the database's per-row write atomicity, last writer wins.
func (r *cacheRepository) Set(ctx context.Context, key, value string) error {
	entry := entity.CacheEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().Unix(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
