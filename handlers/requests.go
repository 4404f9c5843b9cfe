package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/services"
)

// dateValue accepts RFC 3339 timestamps and bare YYYY-MM-DD dates. An
// empty string decodes to the zero time.
type dateValue struct {
	time.Time
}

type dateError struct {
	raw string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.raw)
}

func (d *dateValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &dateError{raw: string(data)}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return &dateError{raw: raw}
}

func (d *dateValue) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// arrayFieldMessages covers request fields that must arrive as JSON arrays.
var arrayFieldMessages = map[string]string{
	"assignedTo":    "assignedTo must be an array of user IDs",
	"todoChecklist": "todoChecklist must be an array of checklist items",
	"attachments":   "attachments must be an array of strings",
}

// decodeJSON decodes the request body into dst and maps decoding failures
// onto InvalidInput with a message naming the offending field.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var dateErr *dateError
	switch {
	case errors.As(err, &typeErr):
		if msg, ok := arrayFieldMessages[typeErr.Field]; ok && typeErr.Type.Kind() == reflect.Slice {
			return apperrors.Invalid("%s", msg)
		}
		if typeErr.Field != "" {
			return apperrors.Invalid("Invalid value for %s", typeErr.Field)
		}
	case errors.As(err, &dateErr):
		return apperrors.Invalid("Invalid dueDate: %s", dateErr.raw)
	}
	return apperrors.Wrap(apperrors.InvalidInput, "Invalid request body", err)
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

func (req registerRequest) input() services.RegisterInput {
	return services.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		ProfileImageURL:  req.ProfileImageURL,
		AdminInviteToken: req.AdminInviteToken,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

func (req profileRequest) patch() services.ProfilePatch {
	return services.ProfilePatch{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	}
}

type createTaskRequest struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Priority      models.Priority        `json:"priority"`
	DueDate       *dateValue             `json:"dueDate"`
	AssignedTo    *[]string              `json:"assignedTo"`
	TodoChecklist []models.ChecklistItem `json:"todoChecklist"`
	Attachments   []string               `json:"attachments"`
}

func (req createTaskRequest) input() services.CreateTaskInput {
	in := services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate.ptr(),
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	}
	if req.AssignedTo != nil {
		in.AssignedTo = *req.AssignedTo
		if in.AssignedTo == nil {
			in.AssignedTo = []string{}
		}
	}
	return in
}

// updateTaskRequest uses pointers so absent fields stay nil. A JSON null
// is indistinguishable from absence and leaves the field unchanged.
type updateTaskRequest struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	Priority      *models.Priority        `json:"priority"`
	DueDate       *dateValue              `json:"dueDate"`
	AssignedTo    *[]string               `json:"assignedTo"`
	TodoChecklist *[]models.ChecklistItem `json:"todoChecklist"`
	Attachments   *[]string               `json:"attachments"`
}

func (req updateTaskRequest) patch() services.TaskPatch {
	return services.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate.ptr(),
		AssignedTo:    req.AssignedTo,
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	}
}

type statusRequest struct {
	Status *models.TaskStatus `json:"status"`
}

type checklistRequest struct {
	TodoChecklist *[]models.ChecklistItem `json:"todoChecklist"`
}

type markReadRequest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
