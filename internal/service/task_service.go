package service

import (
	"context"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

// TaskService exposes task operations.
type TaskService interface {
	CreateTask(ctx context.Context, input model.CreateTaskInput) (*model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListByAssignee(ctx context.Context, uid string) ([]model.Task, error)
	ListByCreator(ctx context.Context, uid string) ([]model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) CreateTask(ctx context.Context, input model.CreateTaskInput) (*model.Task, error) {
	return s.repo.Create(ctx, input)
}

func (s *taskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, errors.ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx), nil
}

func (s *taskService) ListByAssignee(ctx context.Context, uid string) ([]model.Task, error) {
	return s.repo.ListByAssignee(ctx, uid), nil
}

func (s *taskService) ListByCreator(ctx context.Context, uid string) ([]model.Task, error) {
	return s.repo.ListByCreator(ctx, uid), nil
}

func (s *taskService) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	task, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrTaskNotFound
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	if !s.repo.Delete(ctx, id) {
		return errors.ErrTaskNotFound
	}
	return nil
}
