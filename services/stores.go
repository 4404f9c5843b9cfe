package services

import (
	"context"
	"time"

	"github.com/Yousuf-177/TaskFlow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the identity store. Lookups return models.ErrNotFound when
// nothing matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}

// TaskStore is the task store.
type TaskStore interface {
	Find(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter models.TaskFilter) (int64, error)
	CountBy(ctx context.Context, filter models.TaskFilter, field string) (map[string]int64, error)
	Recent(ctx context.Context, filter models.TaskFilter, limit int64) ([]models.RecentTask, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string, createdAt time.Time) error
}
