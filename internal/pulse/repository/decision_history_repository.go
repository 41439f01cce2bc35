package repository

import (
	"context"
	"errors"

	"marketpulse/internal/entity"

	"gorm.io/gorm"
)

// NewDecisionHistoryRepository creates a new GORM-based decision history
// repository.
func NewDecisionHistoryRepository(db *gorm.DB) DecisionHistoryRepository {
	return &decisionHistoryRepository{db: db}
}

type decisionHistoryRepository struct {
	db *gorm.DB
}

// Create persists one generated decision record.
func (r *decisionHistoryRepository) Create(ctx context.Context, history *entity.DecisionHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// FindLatest returns the most recently persisted record, or nil when none
// exists yet.
func (r *decisionHistoryRepository) FindLatest(ctx context.Context) (*entity.DecisionHistory, error) {
	var history entity.DecisionHistory
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}
