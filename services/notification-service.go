package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/models"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewNotificationBreaker guards writes to the notification store.
func NewNotificationBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' state changed from %s to %s", name, from.String(), to.String())
		},
	})
}

// NotificationService records assignment notices. With a nil store every
// write is dropped and every listing is empty.
type NotificationService struct {
	store   NotificationStore
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewNotificationService(store NotificationStore, breaker *gobreaker.CircuitBreaker) *NotificationService {
	if breaker == nil {
		breaker = NewNotificationBreaker()
	}
	return &NotificationService{store: store, breaker: breaker, now: time.Now}
}

func (s *NotificationService) Enabled() bool {
	return s != nil && s.store != nil
}

// AssignmentMessage is the text sent to a newly assigned user.
func AssignmentMessage(title string) string {
	return fmt.Sprintf("You have been assigned to task %q", title)
}

// NotifyAssigned writes one notice per user. Failures are logged only.
func (s *NotificationService) NotifyAssigned(ctx context.Context, task *models.Task, userIDs []primitive.ObjectID) {
	if !s.Enabled() {
		return
	}
	for _, userID := range userIDs {
		n := &models.Notification{
			UserID:    userID.Hex(),
			TaskID:    task.ID.Hex(),
			Message:   AssignmentMessage(task.Title),
			CreatedAt: s.now(),
		}
		_, err := s.breaker.Execute(func() (interface{}, error) {
			return nil, s.store.Create(ctx, n)
		})
		if err != nil {
			logging.Logger.Errorf("Event ID: NOTIFICATION_FAILED, Description: Could not notify user %s about task %s: %v", n.UserID, n.TaskID, err)
			continue
		}
		logging.Logger.Infof("Event ID: NOTIFICATION_SENT, Description: User %s notified about task %s", n.UserID, n.TaskID)
	}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, caller *models.User) ([]models.Notification, error) {
	if !s.Enabled() {
		return []models.Notification{}, nil
	}
	notifications, err := s.store.ListByUser(ctx, caller.ID.Hex())
	if err != nil {
		return nil, apperrors.Internalf(err, "Failed to fetch notifications")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, caller *models.User, id string, createdAt time.Time) error {
	if id == "" || createdAt.IsZero() {
		return apperrors.Invalid("Notification id and createdAt are required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Invalid("Invalid notification ID")
	}
	if !s.Enabled() {
		return apperrors.Missing("Notification not found")
	}
	if err := s.store.MarkRead(ctx, caller.ID.Hex(), id, createdAt); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apperrors.Missing("Notification not found")
		}
		return apperrors.Internalf(err, "Failed to update notification")
	}
	return nil
}
