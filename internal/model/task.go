package model

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of assignable work.
type Task struct {
	ID            int64      `json:"id"`
	UID           string     `json:"uid"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        TaskStatus `json:"status"`
	Priority      Priority   `json:"priority"`
	AssignedTo    *string    `json:"assignedTo"`
	CreatedBy     string     `json:"createdBy"`
	CreatedByName string     `json:"createdByName"`
	DueDate       *time.Time `json:"dueDate"`
	CompletedAt   *time.Time `json:"completedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateTaskInput is the request shape for creating a task.
type CreateTaskInput struct {
	UID           string     `json:"uid" validate:"required"`
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	Status        TaskStatus `json:"status" validate:"omitempty,status"`
	Priority      Priority   `json:"priority" validate:"omitempty,priority"`
	AssignedTo    *string    `json:"assignedTo"`
	CreatedBy     string     `json:"createdBy" validate:"required"`
	CreatedByName string     `json:"createdByName" validate:"required"`
	DueDate       *time.Time `json:"dueDate"`
}

// TaskPatch carries the fields of a partial task update. CompletedAt is
// not patchable; it follows Status.
type TaskPatch struct {
	UID           *string             `json:"uid" validate:"omitempty,min=1"`
	Title         *string             `json:"title" validate:"omitempty,min=1"`
	Description   *string             `json:"description"`
	Status        *TaskStatus         `json:"status" validate:"omitempty,status"`
	Priority      *Priority           `json:"priority" validate:"omitempty,priority"`
	AssignedTo    Nullable[string]    `json:"assignedTo,omitzero"`
	CreatedBy     *string             `json:"createdBy" validate:"omitempty,min=1"`
	CreatedByName *string             `json:"createdByName" validate:"omitempty,min=1"`
	DueDate       Nullable[time.Time] `json:"dueDate,omitzero"`
}

// Apply merges the present fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.UID != nil {
		t.UID = *p.UID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo.Set {
		t.AssignedTo = p.AssignedTo.Ptr()
	}
	if p.CreatedBy != nil {
		t.CreatedBy = *p.CreatedBy
	}
	if p.CreatedByName != nil {
		t.CreatedByName = *p.CreatedByName
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Ptr()
	}
}

// SyncCompletion keeps CompletedAt set exactly while the task is completed.
// Entering the completed state stamps now; staying completed keeps the stamp.
func (t *Task) SyncCompletion(previous TaskStatus, now time.Time) {
	switch {
	case t.Status != TaskStatusCompleted:
		t.CompletedAt = nil
	case previous != TaskStatusCompleted || t.CompletedAt == nil:
		stamp := now
		t.CompletedAt = &stamp
	}
}
