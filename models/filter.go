package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fields a task store can group counts by.
const (
	FieldStatus   = "status"
	FieldPriority = "priority"
)

// TaskFilter selects tasks. Zero-valued fields do not constrain.
type TaskFilter struct {
	AssignedTo    *primitive.ObjectID
	Status        TaskStatus
	ExcludeStatus TaskStatus
	DueBefore     *time.Time
}

// Matches applies the filter to a single task in memory.
func (f TaskFilter) Matches(t Task) bool {
	if f.AssignedTo != nil {
		found := false
		for _, id := range t.AssignedTo {
			if id == *f.AssignedTo {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.ExcludeStatus != "" && t.Status == f.ExcludeStatus {
		return false
	}
	if f.DueBefore != nil && !t.DueDate.Before(*f.DueBefore) {
		return false
	}
	return true
}
