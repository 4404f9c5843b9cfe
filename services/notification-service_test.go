package services

import (
	"context"
	"testing"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotifyAssignedAndMarkRead(t *testing.T) {
	store := testutil.NewMemoryNotificationStore()
	svc := NewNotificationService(store, nil)
	user := &models.User{ID: primitive.NewObjectID()}
	task := &models.Task{ID: primitive.NewObjectID(), Title: "Fix bug"}

	svc.NotifyAssigned(context.Background(), task, []primitive.ObjectID{user.ID})

	list, err := svc.List(context.Background(), user)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Message != `You have been assigned to task "Fix bug"` {
		t.Fatalf("List() = %+v", list)
	}

	if err := svc.MarkRead(context.Background(), user, list[0].ID, list[0].CreatedAt); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if all := store.All(); !all[0].IsRead {
		t.Error("notification not marked read")
	}

	stranger := &models.User{ID: primitive.NewObjectID()}
	if err := svc.MarkRead(context.Background(), stranger, list[0].ID, list[0].CreatedAt); !apperrors.Is(err, apperrors.NotFound) {
		t.Errorf("foreign MarkRead() error = %v, want NotFound", err)
	}
}

func TestNotifyAssignedSwallowsStoreFailures(t *testing.T) {
	store := testutil.NewMemoryNotificationStore()
	store.Fail = true
	svc := NewNotificationService(store, nil)
	task := &models.Task{ID: primitive.NewObjectID(), Title: "x"}

	for i := 0; i < 6; i++ {
		svc.NotifyAssigned(context.Background(), task, []primitive.ObjectID{primitive.NewObjectID()})
	}
	if got := svc.breaker.State().String(); got != "open" {
		t.Errorf("breaker state = %s, want open after repeated failures", got)
	}
}

func TestDisabledNotificationService(t *testing.T) {
	svc := NewNotificationService(nil, nil)
	user := &models.User{ID: primitive.NewObjectID()}

	svc.NotifyAssigned(context.Background(), &models.Task{}, []primitive.ObjectID{user.ID})
	list, err := svc.List(context.Background(), user)
	if err != nil || len(list) != 0 {
		t.Errorf("List() = %v, %v; want empty", list, err)
	}
	if err := svc.MarkRead(context.Background(), user, "", time.Now()); !apperrors.Is(err, apperrors.InvalidInput) {
		t.Errorf("MarkRead() error = %v, want InvalidInput", err)
	}
}
