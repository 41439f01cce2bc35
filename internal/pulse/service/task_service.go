package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketpulse/internal/entity"
	"marketpulse/internal/pulse/dto"
	"marketpulse/internal/pulse/repository"
	"marketpulse/pkg/logger"
)

// TaskService manages the trader's open task list.
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	ListOpen(ctx context.Context) ([]dto.TaskResponse, error)
	MarkDone(ctx context.Context, id uint) error
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, log *logger.Logger) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		logger:   log,
	}
}

type taskService struct {
	taskRepo repository.TaskRepository
	logger   *logger.Logger
}

// Create adds a new open task.
func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("task title is empty")
	}

	task := &entity.Task{
		Title:     title,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create task", logger.ErrorField(err))
		return nil, err
	}
	return mapToTaskResponse(task), nil
}

// ListOpen returns tasks not yet done, newest first.
func (s *taskService) ListOpen(ctx context.Context) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, *mapToTaskResponse(&tasks[i]))
	}
	return responses, nil
}

// MarkDone stamps a task as completed.
func (s *taskService) MarkDone(ctx context.Context, id uint) error {
	if err := s.taskRepo.MarkDone(ctx, id, time.Now().Unix()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark task done", logger.ErrorField(err), logger.Field("task_id", id))
		return err
	}
	return nil
}

func mapToTaskResponse(task *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		CreatedAt: task.CreatedAt,
		DoneAt:    task.DoneAt,
	}
}
