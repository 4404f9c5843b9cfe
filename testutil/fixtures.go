package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "password123"

// SeedUser stores a user with DefaultPassword and returns it.
func SeedUser(t *testing.T, store *MemoryUserStore, name, email string, role models.Role) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}

// TaskOption customizes a seeded task.
type TaskOption func(*models.Task)

func WithStatus(status models.TaskStatus) TaskOption {
	return func(t *models.Task) { t.Status = status }
}

func WithPriority(priority models.Priority) TaskOption {
	return func(t *models.Task) { t.Priority = priority }
}

func WithDueDate(due time.Time) TaskOption {
	return func(t *models.Task) { t.DueDate = due }
}

func WithCreatedAt(created time.Time) TaskOption {
	return func(t *models.Task) { t.CreatedAt = created }
}

func WithChecklist(items ...models.ChecklistItem) TaskOption {
	return func(t *models.Task) { t.TodoChecklist = items }
}

func AssignedTo(ids ...primitive.ObjectID) TaskOption {
	return func(t *models.Task) { t.AssignedTo = ids }
}

// SeedTask stores a Pending, Medium task due in a week, then applies opts.
func SeedTask(t *testing.T, store *MemoryTaskStore, title string, opts ...TaskOption) *models.Task {
	t.Helper()

	now := time.Now()
	task := &models.Task{
		Title:         title,
		Priority:      models.PriorityMedium,
		Status:        models.StatusPending,
		DueDate:       now.Add(7 * 24 * time.Hour),
		AssignedTo:    []primitive.ObjectID{},
		TodoChecklist: []models.ChecklistItem{},
		Attachments:   []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(task)
	}
	if err := store.Create(context.Background(), task); err != nil {
		t.Fatalf("seeding task %s: %v", title, err)
	}
	return task
}
