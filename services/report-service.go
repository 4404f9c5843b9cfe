package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TasksReportFile = "tasks_report.xlsx"
	UsersReportFile = "users_report.xlsx"

	tasksReportSheet = "Tasks Report"
	usersReportSheet = "User Task Report"
)

var taskReportColumns = []utils.Column{
	{Header: "Task ID", Key: "id", Width: 25},
	{Header: "Title", Key: "title", Width: 35},
	{Header: "Description", Key: "description", Width: 55},
	{Header: "Priority", Key: "priority", Width: 15},
	{Header: "Status", Key: "status", Width: 20},
	{Header: "Due Date", Key: "dueDate", Width: 20},
	{Header: "Assigned To", Key: "assignedTo", Width: 30},
}

var userReportColumns = []utils.Column{
	{Header: "User Name", Key: "name", Width: 35},
	{Header: "Email", Key: "email", Width: 40},
	{Header: "Total Assigned Tasks", Key: "taskCount", Width: 15},
	{Header: "Pending Tasks", Key: "pendingTasks", Width: 15},
	{Header: "In Progress Tasks", Key: "inProgressTasks", Width: 15},
	{Header: "Completed Tasks", Key: "completedTasks", Width: 15},
}

type assignmentTally struct {
	total      int
	pending    int
	inProgress int
	completed  int
}

func (t *assignmentTally) add(status models.TaskStatus) {
	t.total++
	switch status {
	case models.StatusPending:
		t.pending++
	case models.StatusInProgress:
		t.inProgress++
	case models.StatusCompleted:
		t.completed++
	}
}

// tallyAssignments counts, per user, every occurrence in a task's
// assignees. A user listed twice on one task is counted twice.
func tallyAssignments(tasks []models.Task) map[primitive.ObjectID]assignmentTally {
	tallies := map[primitive.ObjectID]assignmentTally{}
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			t := tallies[id]
			t.add(task.Status)
			tallies[id] = t
		}
	}
	return tallies
}

// tallyAssignedTasks counts, per user, the tasks they are assigned to.
// Each task counts at most once per user however often it lists them.
func tallyAssignedTasks(tasks []models.Task) map[primitive.ObjectID]assignmentTally {
	tallies := map[primitive.ObjectID]assignmentTally{}
	for _, task := range tasks {
		for _, id := range distinctIDs(task.AssignedTo) {
			t := tallies[id]
			t.add(task.Status)
			tallies[id] = t
		}
	}
	return tallies
}

// BuildTaskReportRows renders one row per task. Assignees missing from
// users are left out of the Assigned To cell.
func BuildTaskReportRows(tasks []models.Task, users map[primitive.ObjectID]models.User) []map[string]any {
	rows := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		names := make([]string, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if u, ok := users[id]; ok {
				names = append(names, fmt.Sprintf("%s (%s)", u.Name, u.Email))
			}
		}
		assigned := strings.Join(names, ", ")
		if assigned == "" {
			assigned = "Unassigned"
		}

		rows = append(rows, map[string]any{
			"id":          task.ID.Hex(),
			"title":       task.Title,
			"description": task.Description,
			"priority":    string(task.Priority),
			"status":      string(task.Status),
			"dueDate":     task.DueDate.UTC().Format("2006-01-02"),
			"assignedTo":  assigned,
		})
	}
	return rows
}

// BuildUserReportRows renders one row per member, zero-filled.
func BuildUserReportRows(members []models.User, tasks []models.Task) []map[string]any {
	tallies := tallyAssignments(tasks)
	rows := make([]map[string]any, 0, len(members))
	for _, member := range members {
		t := tallies[member.ID]
		rows = append(rows, map[string]any{
			"name":            member.Name,
			"email":           member.Email,
			"taskCount":       t.total,
			"pendingTasks":    t.pending,
			"inProgressTasks": t.inProgress,
			"completedTasks":  t.completed,
		})
	}
	return rows
}

type ReportService struct {
	tasks TaskStore
	users UserStore
}

func NewReportService(tasks TaskStore, users UserStore) *ReportService {
	return &ReportService{tasks: tasks, users: users}
}

// TasksReport renders the task export workbook.
func (s *ReportService) TasksReport(ctx context.Context) ([]byte, error) {
	tasks, err := s.tasks.Find(ctx, models.TaskFilter{})
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to export tasks report")
	}

	var ids []primitive.ObjectID
	for _, task := range tasks {
		ids = append(ids, task.AssignedTo...)
	}
	users := map[primitive.ObjectID]models.User{}
	if len(ids) > 0 {
		found, err := s.users.FindByIDs(ctx, distinctIDs(ids))
		if err != nil {
			return nil, apperrors.Internalf(err, "Failed to export tasks report")
		}
		for _, u := range found {
			users[u.ID] = u
		}
	}

	data, err := utils.RenderSpreadsheet(tasksReportSheet, taskReportColumns, BuildTaskReportRows(tasks, users))
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to export tasks report")
	}
	logging.Logger.Infof("Event ID: REPORT_EXPORTED, Description: Tasks report with %d rows", len(tasks))
	return data, nil
}

// UsersReport renders the per-member export workbook.
func (s *ReportService) UsersReport(ctx context.Context) ([]byte, error) {
	members, err := s.users.FindByRole(ctx, models.RoleMember)
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to export users report")
	}
	tasks, err := s.tasks.Find(ctx, models.TaskFilter{})
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to export users report")
	}

	data, err := utils.RenderSpreadsheet(usersReportSheet, userReportColumns, BuildUserReportRows(members, tasks))
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to export users report")
	}
	logging.Logger.Infof("Event ID: REPORT_EXPORTED, Description: Users report with %d rows", len(members))
	return data, nil
}
