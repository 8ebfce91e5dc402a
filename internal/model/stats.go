package model

import "github.com/shopspring/decimal"

// Stats is the on-demand summary shown on the dashboards.
type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveTasks    int `json:"activeTasks"`
	PendingTasks   int `json:"pendingTasks"`
	CompletedTasks int `json:"completedTasks"`
}

// Analytics is the breakdown behind the admin analytics view.
type Analytics struct {
	Stats
	TotalTasks        int              `json:"totalTasks"`
	InProgressTasks   int              `json:"inProgressTasks"`
	ActiveUsers       int              `json:"activeUsers"`
	CompletionRate    decimal.Decimal  `json:"completionRate"`
	RoleBreakdown     map[Role]int     `json:"roleBreakdown"`
	PriorityBreakdown map[Priority]int `json:"priorityBreakdown"`
}
