package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type TaskStore interface {
	Create(ctx context.Context, task models.Task) error
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)
	SetCompleted(ctx context.Context, id string, userID string, completed bool) error
	Delete(ctx context.Context, id string, userID string) error
}

// TaskService manages the caller's own todo list. Tasks are strictly
// per-user; the store scopes every mutation to the owner.
type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) List(ctx context.Context, actor models.User) ([]models.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Add(ctx context.Context, actor models.User, text string) (models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return models.Task{}, fmt.Errorf("%w: task text is required", ErrValidation)
	}

	task := models.Task{
		ID:        ids.New(),
		UserID:    actor.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, actor models.User, taskID string, completed bool) error {
	if err := s.tasks.SetCompleted(ctx, taskID, actor.ID, completed); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, actor models.User, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
