package models

type DashboardStatistics struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverdueTasks    int64 `json:"overdueTasks"`
}

// DashboardCharts keys taskDistribution by the status label with spaces
// removed ("InProgress"), plus "All" on user dashboards.
type DashboardCharts struct {
	TaskDistribution  map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevel map[string]int64 `json:"taskPriorityLevel"`
}

type Dashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}
