// Package testutil provides in-memory stores and fixtures shared by the
// service, middleware and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Yousuf-177/TaskFlow/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrStoreDown is returned by a store whose Fail flag is set.
var ErrStoreDown = errors.New("store unavailable")

// MemoryUserStore keeps users in insertion order.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []models.User
	Fail  bool
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.User{}
	for _, u := range s.users {
		if wanted[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryUserStore) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	idx := -1
	for i, u := range s.users {
		if u.ID == user.ID {
			idx = i
		} else if u.Email == user.Email {
			return models.ErrDuplicate
		}
	}
	if idx < 0 {
		return models.ErrNotFound
	}
	s.users[idx] = *user
	return nil
}

// MemoryTaskStore keeps tasks in insertion order and evaluates filters with
// models.TaskFilter.Matches.
type MemoryTaskStore struct {
	mu    sync.Mutex
	tasks []models.Task
	Fail  bool
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{}
}

func cloneTask(t models.Task) models.Task {
	t.AssignedTo = append([]primitive.ObjectID{}, t.AssignedTo...)
	t.TodoChecklist = append([]models.ChecklistItem{}, t.TodoChecklist...)
	t.Attachments = append([]string{}, t.Attachments...)
	return t
}

func (s *MemoryTaskStore) matching(filter models.TaskFilter) []models.Task {
	out := []models.Task{}
	for _, t := range s.tasks {
		if filter.Matches(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func (s *MemoryTaskStore) Find(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	return s.matching(filter), nil
}

func (s *MemoryTaskStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, t := range s.tasks {
		if t.ID == id {
			found := cloneTask(t)
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryTaskStore) Create(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	s.tasks = append(s.tasks, cloneTask(*task))
	return nil
}

func (s *MemoryTaskStore) Save(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for i, t := range s.tasks {
		if t.ID == task.ID {
			s.tasks[i] = cloneTask(*task)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *MemoryTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *MemoryTaskStore) Count(_ context.Context, filter models.TaskFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrStoreDown
	}
	return int64(len(s.matching(filter))), nil
}

func (s *MemoryTaskStore) CountBy(_ context.Context, filter models.TaskFilter, field string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	counts := map[string]int64{}
	for _, t := range s.matching(filter) {
		switch field {
		case models.FieldStatus:
			counts[string(t.Status)]++
		case models.FieldPriority:
			counts[string(t.Priority)]++
		default:
			return nil, errors.New("unsupported group field " + field)
		}
	}
	return counts, nil
}

func (s *MemoryTaskStore) Recent(_ context.Context, filter models.TaskFilter, limit int64) ([]models.RecentTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	tasks := s.matching(filter)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if int64(len(tasks)) > limit {
		tasks = tasks[:limit]
	}
	out := make([]models.RecentTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Recent())
	}
	return out, nil
}

// MemoryNotificationStore keeps notifications per user, newest first.
type MemoryNotificationStore struct {
	mu      sync.Mutex
	entries []models.Notification
	Fail    bool
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.entries = append(s.entries, *n)
	return nil
}

func (s *MemoryNotificationStore) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := []models.Notification{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID == userID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *MemoryNotificationStore) MarkRead(_ context.Context, userID, notificationID string, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for i, n := range s.entries {
		if n.UserID == userID && n.ID == notificationID && n.CreatedAt.Equal(createdAt) {
			s.entries[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotFound
}

// All returns every stored notification in insertion order.
func (s *MemoryNotificationStore) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification{}, s.entries...)
}
