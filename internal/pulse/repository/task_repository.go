package repository

import (
	"context"

	"marketpulse/internal/entity"

	"gorm.io/gorm"
)

// NewTaskRepository creates a new GORM-based task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

type taskRepository struct {
	db *gorm.DB
}

// Create inserts a new task.
func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindOpen retrieves tasks not yet done, newest first.
func (r *taskRepository) FindOpen(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.WithContext(ctx).
		Where("done_at IS NULL").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkDone stamps a task as completed.
func (r *taskRepository) MarkDone(ctx context.Context, id uint, doneAt int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("id = ?", id).
		Update("done_at", doneAt).Error
}
