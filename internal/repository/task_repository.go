package repository

import (
	"context"
	"fmt"

	"newsdesk/internal/errors"
	"newsdesk/internal/model"
)

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, input model.CreateTaskInput) (*model.Task, error)
	FindByID(ctx context.Context, id int64) (*model.Task, bool)
	FindByUID(ctx context.Context, uid string) (*model.Task, bool)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, bool, error)
	Delete(ctx context.Context, id int64) bool
	List(ctx context.Context) []model.Task
	ListByAssignee(ctx context.Context, uid string) []model.Task
	ListByCreator(ctx context.Context, uid string) []model.Task
}

type taskRepository struct {
	rows *table[model.Task]
	now  Clock
}

// NewTaskRepository creates an in-memory task repository.
func NewTaskRepository(now Clock) TaskRepository {
	return &taskRepository{rows: newTable(cloneTask), now: now}
}

func cloneTask(t model.Task) model.Task {
	t.AssignedTo = clonePtr(t.AssignedTo)
	t.DueDate = clonePtr(t.DueDate)
	t.CompletedAt = clonePtr(t.CompletedAt)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func checkTaskUnique(candidate, existing model.Task) error {
	if candidate.UID == existing.UID {
		return fmt.Errorf("%w: task uid %q already exists", errors.ErrConflict, candidate.UID)
	}
	return nil
}

// Create stores a new task, applying status and priority defaults.
func (r *taskRepository) Create(_ context.Context, input model.CreateTaskInput) (*model.Task, error) {
	now := r.now()
	task, err := r.rows.insert(func(id int64) model.Task {
		t := model.Task{
			ID:            id,
			UID:           input.UID,
			Title:         input.Title,
			Description:   input.Description,
			Status:        input.Status,
			Priority:      input.Priority,
			AssignedTo:    clonePtr(input.AssignedTo),
			CreatedBy:     input.CreatedBy,
			CreatedByName: input.CreatedByName,
			DueDate:       clonePtr(input.DueDate),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if t.Status == "" {
			t.Status = model.TaskStatusPending
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		t.SyncCompletion("", now)
		return t
	}, checkTaskUnique)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByID(_ context.Context, id int64) (*model.Task, bool) {
	task, ok := r.rows.get(id)
	if !ok {
		return nil, false
	}
	return &task, true
}

func (r *taskRepository) FindByUID(_ context.Context, uid string) (*model.Task, bool) {
	task, ok := r.rows.first(func(t model.Task) bool { return t.UID == uid })
	if !ok {
		return nil, false
	}
	return &task, true
}

// Update merges the patch onto the stored task, reconciles CompletedAt with
// the resulting status and re-stamps UpdatedAt, all under the table lock.
func (r *taskRepository) Update(_ context.Context, id int64, patch model.TaskPatch) (*model.Task, bool, error) {
	now := r.now()
	task, ok, err := r.rows.update(id, func(t *model.Task) {
		previous := t.Status
		patch.Apply(t)
		t.SyncCompletion(previous, now)
		t.UpdatedAt = now
	}, checkTaskUnique)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &task, true, nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) bool {
	return r.rows.remove(id)
}

func (r *taskRepository) List(_ context.Context) []model.Task {
	return r.rows.filter(nil)
}

func (r *taskRepository) ListByAssignee(_ context.Context, uid string) []model.Task {
	return r.rows.filter(func(t model.Task) bool {
		return t.AssignedTo != nil && *t.AssignedTo == uid
	})
}

func (r *taskRepository) ListByCreator(_ context.Context, uid string) []model.Task {
	return r.rows.filter(func(t model.Task) bool { return t.CreatedBy == uid })
}
