package handlers

import (
	"net/http"

	"github.com/Yousuf-177/TaskFlow/middleware"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/utils"

	"github.com/gorilla/mux"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Users         *services.UserService
	Tasks         *services.TaskService
	Dashboards    *services.DashboardService
	Reports       *services.ReportService
	Notifications *services.NotificationService
	Tokens        *services.JWTService
	Images        ImageStore
	UploadDir     string
}

func NewRouter(d Deps) *mux.Router {
	authHandler := NewAuthHandler(d.Users)
	userHandler := NewUserHandler(d.Users)
	taskHandler := NewTaskHandler(d.Tasks, d.Dashboards)
	reportHandler := NewReportHandler(d.Reports)
	notificationHandler := NewNotificationHandler(d.Notifications)
	uploadHandler := NewUploadHandler(d.Images)

	authenticate := middleware.Authenticate(d.Tokens, d.Users)
	protect := func(h http.HandlerFunc) http.Handler {
		return authenticate(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authenticate(middleware.AdminOnly(h))
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestLogging)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.Handle("/api/auth/profile", protect(authHandler.GetProfile)).Methods(http.MethodGet)
	r.Handle("/api/auth/profile", protect(authHandler.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/api/auth/upload-image", protect(uploadHandler.UploadImage)).Methods(http.MethodPost)

	// Users
	r.Handle("/api/user", adminOnly(userHandler.GetUsers)).Methods(http.MethodGet)
	r.Handle("/api/user/{id}", protect(userHandler.GetUserByID)).Methods(http.MethodGet)

	// Tasks; the fixed paths come before /api/task/{id}.
	r.Handle("/api/task/dashboard-data", protect(taskHandler.GetDashboardData)).Methods(http.MethodGet)
	r.Handle("/api/task/user-dashboard-data", protect(taskHandler.GetUserDashboardData)).Methods(http.MethodGet)
	r.Handle("/api/task", protect(taskHandler.GetTasks)).Methods(http.MethodGet)
	r.Handle("/api/task", adminOnly(taskHandler.CreateTask)).Methods(http.MethodPost)
	r.Handle("/api/task/{id}", protect(taskHandler.GetTaskByID)).Methods(http.MethodGet)
	r.Handle("/api/task/{id}", protect(taskHandler.UpdateTask)).Methods(http.MethodPut)
	r.Handle("/api/task/{id}", adminOnly(taskHandler.DeleteTask)).Methods(http.MethodDelete)
	r.Handle("/api/task/{id}/status", protect(taskHandler.UpdateTaskStatus)).Methods(http.MethodPut)
	r.Handle("/api/task/{id}/todo", protect(taskHandler.UpdateTaskChecklist)).Methods(http.MethodPut)

	// Reports
	r.Handle("/api/report/export/tasks", adminOnly(reportHandler.ExportTasks)).Methods(http.MethodGet)
	r.Handle("/api/report/export/users", adminOnly(reportHandler.ExportUsers)).Methods(http.MethodGet)

	// Notifications
	r.Handle("/api/notification", protect(notificationHandler.GetNotifications)).Methods(http.MethodGet)
	r.Handle("/api/notification/read", protect(notificationHandler.MarkAsRead)).Methods(http.MethodPut)

	if d.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir)))).Methods(http.MethodGet)
	}

	return r
}
