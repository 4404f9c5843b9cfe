package services

import (
	"math"

	"github.com/Yousuf-177/TaskFlow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

// ComputeProgress is round(100 * completed / total), or 0 for an empty
// checklist.
func ComputeProgress(items []models.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(items))))
}

// DeriveStatus maps progress onto a status label.
func DeriveStatus(progress int) models.TaskStatus {
	switch {
	case progress >= 100:
		return models.StatusCompleted
	case progress > 0:
		return models.StatusInProgress
	default:
		return models.StatusPending
	}
}

// ApplyChecklist is the checklist-drives-status direction: the checklist is
// replaced, then progress and status are derived from it.
func ApplyChecklist(task *models.Task, items []models.ChecklistItem) {
	if items == nil {
		items = []models.ChecklistItem{}
	}
	task.TodoChecklist = items
	task.Progress = ComputeProgress(items)
	task.Status = DeriveStatus(task.Progress)
}

// ApplyStatus is the status-drives-checklist direction. Completed marks
// every item done and pins progress at 100; other statuses leave the
// checklist and progress untouched.
func ApplyStatus(task *models.Task, status models.TaskStatus) {
	task.Status = status
	if status != models.StatusCompleted {
		return
	}
	for i := range task.TodoChecklist {
		task.TodoChecklist[i].Completed = true
	}
	task.Progress = 100
}

// IsAssignee reports whether userID appears in the task's assignees.
func IsAssignee(task *models.Task, userID primitive.ObjectID) bool {
	return slices.Contains(task.AssignedTo, userID)
}

// CanMutate reports whether user may change the task's status, checklist
// or fields: admins always, members only when assigned.
func CanMutate(task *models.Task, user *models.User) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin() || IsAssignee(task, user.ID)
}

// addedAssignees returns ids in next that were not in prev, once each.
func addedAssignees(prev, next []primitive.ObjectID) []primitive.ObjectID {
	added := []primitive.ObjectID{}
	for _, id := range next {
		if !slices.Contains(prev, id) && !slices.Contains(added, id) {
			added = append(added, id)
		}
	}
	return added
}

// distinctIDs drops repeated ids, keeping first occurrences in order.
func distinctIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
