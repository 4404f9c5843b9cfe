package handlers

import (
	"net/http"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/utils"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service    *services.TaskService
	dashboards *services.DashboardService
}

func NewTaskHandler(service *services.TaskService, dashboards *services.DashboardService) *TaskHandler {
	return &TaskHandler{service: service, dashboards: dashboards}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), user, req.input())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Tasks fetched successfully", map[string]any{"tasks": tasks})
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), user, mux.Vars(r)["id"], req.patch())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if req.Status == nil {
		utils.WriteError(w, apperrors.Invalid("Status is required"))
		return
	}

	task, err := h.service.UpdateStatus(r.Context(), user, mux.Vars(r)["id"], *req.Status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Task status updated", map[string]any{"task": task})
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}
	var req checklistRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if req.TodoChecklist == nil {
		utils.WriteError(w, apperrors.Invalid("todoChecklist must be an array of checklist items"))
		return
	}

	task, err := h.service.UpdateChecklist(r.Context(), user, mux.Vars(r)["id"], *req.TodoChecklist)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Task checklist updated", map[string]any{"task": task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Task deleted successfully", nil)
}

func (h *TaskHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboards.Global(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *TaskHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboards.ForUser(r.Context(), user)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dashboard)
}
