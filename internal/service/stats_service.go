package service

import (
	"context"

	"github.com/shopspring/decimal"

	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

// StatsService computes dashboard figures on demand. Nothing is cached.
type StatsService interface {
	Summary(ctx context.Context) (*model.Stats, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

type statsService struct {
	users repository.UserRepository
	tasks repository.TaskRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(users repository.UserRepository, tasks repository.TaskRepository) StatsService {
	return &statsService{users: users, tasks: tasks}
}

func (s *statsService) Summary(ctx context.Context) (*model.Stats, error) {
	users := s.users.List(ctx)
	tasks := s.tasks.List(ctx)
	stats := summarize(users, tasks)
	return &stats, nil
}

func summarize(users []model.User, tasks []model.Task) model.Stats {
	stats := model.Stats{TotalUsers: len(users)}
	for _, t := range tasks {
		switch t.Status {
		case model.TaskStatusCompleted:
			stats.CompletedTasks++
			continue
		case model.TaskStatusPending:
			stats.PendingTasks++
		}
		stats.ActiveTasks++
	}
	return stats
}

// Analytics extends the summary with per-role and per-priority breakdowns.
// CompletionRate is a percentage rounded to one decimal place.
func (s *statsService) Analytics(ctx context.Context) (*model.Analytics, error) {
	users := s.users.List(ctx)
	tasks := s.tasks.List(ctx)

	a := &model.Analytics{
		Stats:             summarize(users, tasks),
		TotalTasks:        len(tasks),
		CompletionRate:    decimal.Zero,
		RoleBreakdown:     make(map[model.Role]int, len(model.Roles)),
		PriorityBreakdown: make(map[model.Priority]int, len(model.Priorities)),
	}
	for _, r := range model.Roles {
		a.RoleBreakdown[r] = 0
	}
	for _, p := range model.Priorities {
		a.PriorityBreakdown[p] = 0
	}

	for _, u := range users {
		if u.IsActive {
			a.ActiveUsers++
		}
		if u.Role.Valid() {
			a.RoleBreakdown[u.Role]++
		}
	}
	for _, t := range tasks {
		if t.Status == model.TaskStatusInProgress {
			a.InProgressTasks++
		}
		if t.Priority.Valid() {
			a.PriorityBreakdown[t.Priority]++
		}
	}

	if a.TotalTasks > 0 {
		a.CompletionRate = decimal.NewFromInt(int64(a.CompletedTasks)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(a.TotalTasks))).
			Round(1)
	}
	return a, nil
}
