package services

import (
	"context"
	"strings"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/models"
)

const recentTaskLimit = 10

type DashboardService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewDashboardService(tasks TaskStore) *DashboardService {
	return &DashboardService{tasks: tasks, now: time.Now}
}

// Global aggregates over every task.
func (s *DashboardService) Global(ctx context.Context) (*models.Dashboard, error) {
	return s.build(ctx, models.TaskFilter{})
}

// ForUser aggregates over the caller's assigned tasks and adds an All key
// to the status distribution.
func (s *DashboardService) ForUser(ctx context.Context, caller *models.User) (*models.Dashboard, error) {
	dashboard, err := s.build(ctx, models.TaskFilter{AssignedTo: &caller.ID})
	if err != nil {
		return nil, err
	}
	dashboard.Charts.TaskDistribution["All"] = dashboard.Statistics.TotalTasks
	return dashboard, nil
}

func (s *DashboardService) build(ctx context.Context, scope models.TaskFilter) (*models.Dashboard, error) {
	total, err := s.tasks.Count(ctx, scope)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error while fetching dashboard data")
	}

	overdueFilter := scope
	now := s.now()
	overdueFilter.ExcludeStatus = models.StatusCompleted
	overdueFilter.DueBefore = &now
	overdue, err := s.tasks.Count(ctx, overdueFilter)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error while fetching dashboard data")
	}

	byStatus, err := s.tasks.CountBy(ctx, scope, models.FieldStatus)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error while fetching dashboard data")
	}
	byPriority, err := s.tasks.CountBy(ctx, scope, models.FieldPriority)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error while fetching dashboard data")
	}

	recent, err := s.tasks.Recent(ctx, scope, recentTaskLimit)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error while fetching dashboard data")
	}
	if recent == nil {
		recent = []models.RecentTask{}
	}

	distribution := StatusDistribution(byStatus)
	return &models.Dashboard{
		Statistics: models.DashboardStatistics{
			TotalTasks:      total,
			PendingTasks:    distribution[DistributionKey(models.StatusPending)],
			InProgressTasks: distribution[DistributionKey(models.StatusInProgress)],
			CompletedTasks:  distribution[DistributionKey(models.StatusCompleted)],
			OverdueTasks:    overdue,
		},
		Charts: models.DashboardCharts{
			TaskDistribution:  distribution,
			TaskPriorityLevel: PriorityDistribution(byPriority),
		},
		RecentTasks: recent,
	}, nil
}

// DistributionKey is the status label with spaces removed.
func DistributionKey(status models.TaskStatus) string {
	return strings.ReplaceAll(string(status), " ", "")
}

// StatusDistribution zero-fills the fixed status labels from raw group
// counts. Unknown labels are dropped.
func StatusDistribution(raw map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		out[DistributionKey(status)] = raw[string(status)]
	}
	return out
}

// PriorityDistribution zero-fills the fixed priority labels.
func PriorityDistribution(raw map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(models.Priorities))
	for _, priority := range models.Priorities {
		out[string(priority)] = raw[string(priority)]
	}
	return out
}
