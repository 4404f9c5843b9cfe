package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier is told about users newly assigned to a task.
type Notifier interface {
	NotifyAssigned(ctx context.Context, task *models.Task, userIDs []primitive.ObjectID)
}

// CreateTaskInput is the creation form. A nil AssignedTo means the field
// was absent from the request.
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.Priority
	DueDate       *time.Time
	AssignedTo    []string
	TodoChecklist []models.ChecklistItem
	Attachments   []string
}

// TaskPatch changes only the fields that are non-nil; a non-nil pointer to
// an empty value clears the field.
type TaskPatch struct {
	Title         *string
	Description   *string
	Priority      *models.Priority
	DueDate       *time.Time
	AssignedTo    *[]string
	TodoChecklist *[]models.ChecklistItem
	Attachments   *[]string
}

type TaskService struct {
	tasks    TaskStore
	users    UserStore
	notifier Notifier
	now      func() time.Time
}

func NewTaskService(tasks TaskStore, users UserStore, notifier Notifier) *TaskService {
	return &TaskService{tasks: tasks, users: users, notifier: notifier, now: time.Now}
}

// ParseID turns a hex path segment into an ObjectID.
func ParseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Invalid("Invalid %s ID", what)
	}
	return id, nil
}

// resolveAssignees parses the raw ids and checks that every distinct id
// names a stored user. Order and repeats are preserved.
func (s *TaskService) resolveAssignees(ctx context.Context, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, apperrors.Invalid("Invalid user ID in assignedTo: %q", r)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	distinct := distinctIDs(ids)
	found, err := s.users.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}
	if len(found) != len(distinct) {
		return nil, apperrors.Invalid("One or more assigned users do not exist")
	}
	return ids, nil
}

func (s *TaskService) Create(ctx context.Context, caller *models.User, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.Invalid("Title is required")
	}
	if in.DueDate == nil || in.DueDate.IsZero() {
		return nil, apperrors.Invalid("Due date is required")
	}
	if in.AssignedTo == nil {
		return nil, apperrors.Invalid("assignedTo must be an array of user IDs")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.Invalid("Priority must be one of Low, Medium, High")
	}

	assignees, err := s.resolveAssignees(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	checklist := in.TodoChecklist
	if checklist == nil {
		checklist = []models.ChecklistItem{}
	}
	attachments := in.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	now := s.now()
	task := &models.Task{
		Title:         title,
		Description:   in.Description,
		Priority:      priority,
		Status:        models.StatusPending,
		DueDate:       *in.DueDate,
		Progress:      0,
		AssignedTo:    assignees,
		TodoChecklist: checklist,
		Attachments:   attachments,
		CreatedBy:     caller.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), caller.ID.Hex())
	s.notify(ctx, task, addedAssignees(nil, task.AssignedTo))
	return task, nil
}

// List returns every task for admins and the caller's assigned tasks for
// everybody else.
func (s *TaskService) List(ctx context.Context, caller *models.User) ([]models.TaskDetails, error) {
	filter := models.TaskFilter{}
	if !caller.IsAdmin() {
		filter.AssignedTo = &caller.ID
	}
	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return s.populate(ctx, tasks)
}

func (s *TaskService) Get(ctx context.Context, rawID string) (*models.TaskDetails, error) {
	task, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, task)
}

func (s *TaskService) load(ctx context.Context, rawID string) (*models.Task, error) {
	id, err := ParseID(rawID, "task")
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.Missing("Task not found")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return task, nil
}

// loadForMutation loads the task and checks that caller may change it.
func (s *TaskService) loadForMutation(ctx context.Context, caller *models.User, rawID string) (*models.Task, error) {
	task, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(task, caller) {
		logging.Logger.Warnf("Event ID: TASK_ACCESS_DENIED, Description: User %s is not assigned to task %s", caller.ID.Hex(), task.ID.Hex())
		return nil, apperrors.Denied("Not authorized to update this task")
	}
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = s.now()
	if err := s.tasks.Save(ctx, task); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apperrors.Missing("Task not found")
		}
		return apperrors.Internalf(err, "Server Error")
	}
	return nil
}

func (s *TaskService) Update(ctx context.Context, caller *models.User, rawID string, patch TaskPatch) (*models.TaskDetails, error) {
	task, err := s.loadForMutation(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.Invalid("Title cannot be empty")
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperrors.Invalid("Priority must be one of Low, Medium, High")
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return nil, apperrors.Invalid("Due date cannot be empty")
		}
		task.DueDate = *patch.DueDate
	}
	if patch.Attachments != nil {
		attachments := *patch.Attachments
		if attachments == nil {
			attachments = []string{}
		}
		task.Attachments = attachments
	}

	var added []primitive.ObjectID
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == nil {
			return nil, apperrors.Invalid("assignedTo must be an array of user IDs")
		}
		assignees, err := s.resolveAssignees(ctx, *patch.AssignedTo)
		if err != nil {
			return nil, err
		}
		added = addedAssignees(task.AssignedTo, assignees)
		task.AssignedTo = assignees
	}
	if patch.TodoChecklist != nil {
		ApplyChecklist(task, *patch.TodoChecklist)
	}

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", task.ID.Hex(), caller.ID.Hex())
	s.notify(ctx, task, added)

	return s.detail(ctx, task)
}

// UpdateStatus sets the status directly. Completed also completes the
// checklist.
func (s *TaskService) UpdateStatus(ctx context.Context, caller *models.User, rawID string, status models.TaskStatus) (*models.TaskDetails, error) {
	task, err := s.loadForMutation(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.Invalid("Status must be one of Pending, In Progress, Completed")
	}

	ApplyStatus(task, status)
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_STATUS_UPDATED, Description: Task %s set to %s by %s", task.ID.Hex(), status, caller.ID.Hex())
	return s.detail(ctx, task)
}

// UpdateChecklist replaces the checklist and re-derives progress and
// status from it.
func (s *TaskService) UpdateChecklist(ctx context.Context, caller *models.User, rawID string, items []models.ChecklistItem) (*models.TaskDetails, error) {
	task, err := s.loadForMutation(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, apperrors.Invalid("todoChecklist must be an array of checklist items")
	}

	ApplyChecklist(task, items)
	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CHECKLIST_UPDATED, Description: Task %s at %d%% (%s)", task.ID.Hex(), task.Progress, task.Status)
	return s.detail(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID, "task")
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apperrors.Missing("Task not found")
		}
		return apperrors.Internalf(err, "Server Error")
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", id.Hex())
	return nil
}

func (s *TaskService) detail(ctx context.Context, task *models.Task) (*models.TaskDetails, error) {
	details, err := s.populate(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// populate replaces assignee ids with user summaries, one lookup for the
// whole batch. Ids whose user has vanished are skipped.
func (s *TaskService) populate(ctx context.Context, tasks []models.Task) ([]models.TaskDetails, error) {
	var ids []primitive.ObjectID
	for _, t := range tasks {
		ids = append(ids, t.AssignedTo...)
	}

	byID := map[primitive.ObjectID]models.UserSummary{}
	if len(ids) > 0 {
		users, err := s.users.FindByIDs(ctx, distinctIDs(ids))
		if err != nil {
			return nil, apperrors.Internalf(err, "Server Error")
		}
		for _, u := range users {
			byID[u.ID] = u.Summary()
		}
	}

	out := make([]models.TaskDetails, 0, len(tasks))
	for _, t := range tasks {
		summaries := make([]models.UserSummary, 0, len(t.AssignedTo))
		for _, id := range t.AssignedTo {
			if u, ok := byID[id]; ok {
				summaries = append(summaries, u)
			}
		}
		out = append(out, models.TaskDetails{Task: t, AssignedTo: summaries})
	}
	return out, nil
}

func (s *TaskService) notify(ctx context.Context, task *models.Task, userIDs []primitive.ObjectID) {
	if s.notifier == nil || len(userIDs) == 0 {
		return
	}
	s.notifier.NotifyAssigned(ctx, task, userIDs)
}
