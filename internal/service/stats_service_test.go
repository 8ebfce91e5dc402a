package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

func TestStatsService_Summary(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(nil)
	stats := NewStatsService(store.Users, store.Tasks)

	empty, err := stats.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, *empty)

	_, err = store.Users.Create(ctx, model.CreateUserInput{UID: "u1", FullName: "A", Email: "a@x.com", Role: model.RoleReporter})
	require.NoError(t, err)

	statuses := []model.TaskStatus{
		model.TaskStatusPending,
		model.TaskStatusPending,
		model.TaskStatusInProgress,
		model.TaskStatusCompleted,
	}
	for i, st := range statuses {
		_, err := store.Tasks.Create(ctx, model.CreateTaskInput{
			UID: string(rune('a' + i)), Title: "t", Status: st, CreatedBy: "u1", CreatedByName: "A",
		})
		require.NoError(t, err)
	}

	summary, err := stats.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{TotalUsers: 1, ActiveTasks: 3, PendingTasks: 2, CompletedTasks: 1}, *summary)
}

func TestStatsService_Analytics(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(nil)
	stats := NewStatsService(store.Users, store.Tasks)

	empty, err := stats.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0", empty.CompletionRate.String())
	assert.Equal(t, 0, empty.RoleBreakdown[model.RoleAdmin])
	assert.Len(t, empty.RoleBreakdown, len(model.Roles))

	inactive := false
	users := []model.CreateUserInput{
		{UID: "a", FullName: "A", Email: "a@x.com", Role: model.RoleAdmin},
		{UID: "b", FullName: "B", Email: "b@x.com", Role: model.RoleReporter},
		{UID: "c", FullName: "C", Email: "c@x.com", Role: model.RoleReporter, IsActive: &inactive},
	}
	for _, u := range users {
		_, err := store.Users.Create(ctx, u)
		require.NoError(t, err)
	}

	tasks := []model.CreateTaskInput{
		{UID: "t1", Title: "t", Status: model.TaskStatusCompleted, Priority: model.PriorityHigh, CreatedBy: "a", CreatedByName: "A"},
		{UID: "t2", Title: "t", Status: model.TaskStatusCompleted, CreatedBy: "a", CreatedByName: "A"},
		{UID: "t3", Title: "t", Status: model.TaskStatusInProgress, CreatedBy: "a", CreatedByName: "A"},
	}
	for _, in := range tasks {
		_, err := store.Tasks.Create(ctx, in)
		require.NoError(t, err)
	}

	a, err := stats.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalUsers)
	assert.Equal(t, 2, a.ActiveUsers)
	assert.Equal(t, 3, a.TotalTasks)
	assert.Equal(t, 1, a.InProgressTasks)
	assert.Equal(t, 2, a.CompletedTasks)
	assert.Equal(t, "66.7", a.CompletionRate.String())
	assert.Equal(t, 2, a.RoleBreakdown[model.RoleReporter])
	assert.Equal(t, 1, a.PriorityBreakdown[model.PriorityHigh])
	assert.Equal(t, 2, a.PriorityBreakdown[model.PriorityMedium])
}
