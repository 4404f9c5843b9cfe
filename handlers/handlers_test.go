package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/testutil"
	"github.com/Yousuf-177/TaskFlow/utils"

	"github.com/gorilla/mux"
)

type testServer struct {
	router    *mux.Router
	tokens    *services.JWTService
	users     *testutil.MemoryUserStore
	tasks     *testutil.MemoryTaskStore
	uploadDir string
	admin     *models.User
	alice     *models.User
	bob       *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		tokens:    services.NewJWTService("test-secret", time.Hour),
		users:     testutil.NewMemoryUserStore(),
		tasks:     testutil.NewMemoryTaskStore(),
		uploadDir: t.TempDir(),
	}
	storage, err := utils.NewDiskStorage(s.uploadDir)
	if err != nil {
		t.Fatalf("NewDiskStorage() error = %v", err)
	}
	notifications := services.NewNotificationService(testutil.NewMemoryNotificationStore(), nil)

	s.router = NewRouter(Deps{
		Users:         services.NewUserService(s.users, s.tasks, s.tokens, "invite"),
		Tasks:         services.NewTaskService(s.tasks, s.users, notifications),
		Dashboards:    services.NewDashboardService(s.tasks),
		Reports:       services.NewReportService(s.tasks, s.users),
		Notifications: notifications,
		Tokens:        s.tokens,
		Images:        storage,
		UploadDir:     s.uploadDir,
	})

	s.admin = testutil.SeedUser(t, s.users, "Admin", "admin@example.com", models.RoleAdmin)
	s.alice = testutil.SeedUser(t, s.users, "Alice", "alice@example.com", models.RoleMember)
	s.bob = testutil.SeedUser(t, s.users, "Bob", "bob@example.com", models.RoleMember)
	return s
}

func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := s.tokens.GenerateAuthToken(user.ID.Hex())
	if err != nil {
		t.Fatalf("GenerateAuthToken() error = %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path string, as *models.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, as))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, http.MethodGet, "/health", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/task"},
		{http.MethodGet, "/api/task/dashboard-data"},
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/report/export/tasks"},
		{http.MethodGet, "/api/notification"},
	}
	for _, p := range paths {
		if rec := s.do(t, p.method, p.path, nil, ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", nil, `{"name":"Cy","email":"cy@example.com","password":"pw123456"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}
	var registered struct {
		ID       string `json:"id"`
		Role     string `json:"role"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	decodeBody(t, rec, &registered)
	if registered.Token == "" || registered.Role != "member" || registered.Password != "" {
		t.Errorf("register body = %s", rec.Body)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/register", nil, `{"name":"Cy","email":"cy@example.com","password":"pw123456"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "User Already Exist") {
		t.Errorf("duplicate register = %d %s", rec.Code, rec.Body)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"cy@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", nil, `{"email":"cy@example.com","password":"pw123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	var loggedIn struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &loggedIn)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	profile := httptest.NewRecorder()
	s.router.ServeHTTP(profile, req)
	if profile.Code != http.StatusOK || !strings.Contains(profile.Body.String(), "cy@example.com") {
		t.Errorf("profile = %d %s", profile.Code, profile.Body)
	}
}

func TestCreateTaskAccessAndValidation(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodPost, "/api/task", s.alice, `{"title":"x","dueDate":"2025-01-01","assignedTo":[]}`); rec.Code != http.StatusForbidden {
		t.Errorf("member create = %d, want 403", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/task", s.admin, `{"title":"x","dueDate":"2025-01-01","assignedTo":"abc"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "assignedTo must be an array") {
		t.Errorf("non-array assignedTo = %d %s", rec.Code, rec.Body)
	}

	if rec := s.do(t, http.MethodPost, "/api/task", s.admin, `{"title":"x","dueDate":"2025-01-01"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing assignedTo = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/task", s.admin, `{"title":"x","dueDate":"someday","assignedTo":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad dueDate = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/task", s.admin, `{"title":`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/task", s.admin, `{"title":"Fix bug","dueDate":"2025-01-01","assignedTo":[]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	var created struct {
		Task struct {
			Status   string `json:"status"`
			Progress int    `json:"progress"`
			Priority string `json:"priority"`
		} `json:"task"`
	}
	decodeBody(t, rec, &created)
	if created.Task.Status != "Pending" || created.Task.Progress != 0 || created.Task.Priority != "Medium" {
		t.Errorf("created task = %+v", created.Task)
	}
}

func TestTaskMutationsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	task := testutil.SeedTask(t, s.tasks, "Checklist", testutil.AssignedTo(s.alice.ID))
	path := "/api/task/" + task.ID.Hex()

	rec := s.do(t, http.MethodPut, path+"/todo", s.alice,
		`{"todoChecklist":[{"text":"a","completed":true},{"text":"b","completed":true},{"text":"c","completed":false},{"text":"d","completed":false}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("todo = %d %s", rec.Code, rec.Body)
	}
	var updated struct {
		Task struct {
			Status   string `json:"status"`
			Progress int    `json:"progress"`
		} `json:"task"`
	}
	decodeBody(t, rec, &updated)
	if updated.Task.Progress != 50 || updated.Task.Status != "In Progress" {
		t.Errorf("after todo = %+v", updated.Task)
	}

	if rec := s.do(t, http.MethodPut, path+"/todo", s.alice, `{"todoChecklist":"done"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("non-array checklist = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, path+"/status", s.bob, `{"status":"Completed"}`); rec.Code != http.StatusForbidden {
		t.Errorf("non-assignee status = %d, want 403", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, path+"/status", s.alice, `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing status = %d, want 400", rec.Code)
	}

	rec = s.do(t, http.MethodPut, path+"/status", s.alice, `{"status":"Completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	decodeBody(t, rec, &updated)
	if updated.Task.Progress != 100 || updated.Task.Status != "Completed" {
		t.Errorf("after status = %+v", updated.Task)
	}

	if rec := s.do(t, http.MethodPut, path, s.alice, `{"description":""}`); rec.Code != http.StatusOK {
		t.Errorf("update = %d %s", rec.Code, rec.Body)
	}
	if rec := s.do(t, http.MethodDelete, path, s.alice, ""); rec.Code != http.StatusForbidden {
		t.Errorf("member delete = %d, want 403", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, path, s.admin, ""); rec.Code != http.StatusOK {
		t.Errorf("admin delete = %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, path, s.alice, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d, want 404", rec.Code)
	}
}

func TestGetTaskByIDErrors(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/api/task/not-an-id", s.alice, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id = %d, want 400", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/task/64b7f0c2a1b2c3d4e5f60718", s.alice, ""); rec.Code != http.StatusNotFound {
		t.Errorf("absent id = %d, want 404", rec.Code)
	}
}

func TestUserDashboardOverHTTP(t *testing.T) {
	s := newTestServer(t)
	testutil.SeedTask(t, s.tasks, "p1", testutil.AssignedTo(s.alice.ID))
	testutil.SeedTask(t, s.tasks, "p2", testutil.AssignedTo(s.alice.ID))
	testutil.SeedTask(t, s.tasks, "c1", testutil.AssignedTo(s.alice.ID), testutil.WithStatus(models.StatusCompleted))

	rec := s.do(t, http.MethodGet, "/api/task/user-dashboard-data", s.alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	var d models.Dashboard
	decodeBody(t, rec, &d)

	want := map[string]int64{"Pending": 2, "InProgress": 0, "Completed": 1, "All": 3}
	for k, v := range want {
		if d.Charts.TaskDistribution[k] != v {
			t.Errorf("distribution[%s] = %d, want %d", k, d.Charts.TaskDistribution[k], v)
		}
	}
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/api/user", s.alice, ""); rec.Code != http.StatusForbidden {
		t.Errorf("member list = %d, want 403", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/api/user", s.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list = %d", rec.Code)
	}
	var members []map[string]any
	decodeBody(t, rec, &members)
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}

	if rec := s.do(t, http.MethodGet, "/api/user/"+s.bob.ID.Hex(), s.alice, ""); rec.Code != http.StatusOK {
		t.Errorf("get user = %d", rec.Code)
	}
}

func TestExportReports(t *testing.T) {
	s := newTestServer(t)
	testutil.SeedTask(t, s.tasks, "Report me", testutil.AssignedTo(s.alice.ID))

	for _, tc := range []struct{ path, file string }{
		{"/api/report/export/tasks", "tasks_report.xlsx"},
		{"/api/report/export/users", "users_report.xlsx"},
	} {
		if rec := s.do(t, http.MethodGet, tc.path, s.alice, ""); rec.Code != http.StatusForbidden {
			t.Errorf("member %s = %d, want 403", tc.path, rec.Code)
		}

		rec := s.do(t, http.MethodGet, tc.path, s.admin, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d %s", tc.path, rec.Code, rec.Body)
		}
		if got := rec.Header().Get("Content-Type"); got != utils.SpreadsheetContentType {
			t.Errorf("content type = %q", got)
		}
		if got := rec.Header().Get("Content-Disposition"); got != fmt.Sprintf("attachment; filename=%q", tc.file) {
			t.Errorf("disposition = %q", got)
		}
		if rec.Body.Len() == 0 {
			t.Error("empty workbook")
		}
	}
}

func multipartImage(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)

	upload := func(field, filename, contentType string) *httptest.ResponseRecorder {
		body, ct := multipartImage(t, field, filename, contentType, []byte("\x89PNG fake"))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/upload-image", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+s.token(t, s.alice))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("image", "avatar.png", "image/png")
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d %s", rec.Code, rec.Body)
	}
	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	decodeBody(t, rec, &resp)
	if !strings.HasPrefix(resp.ImageURL, "http://example.com/uploads/") || !strings.HasSuffix(resp.ImageURL, "-avatar.png") {
		t.Errorf("imageUrl = %q", resp.ImageURL)
	}
	name := strings.TrimPrefix(resp.ImageURL, "http://example.com/uploads/")
	if _, err := os.Stat(filepath.Join(s.uploadDir, name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	served := s.do(t, http.MethodGet, "/uploads/"+name, nil, "")
	if served.Code != http.StatusOK || !strings.Contains(served.Body.String(), "PNG") {
		t.Errorf("serving upload = %d", served.Code)
	}

	if rec := upload("image", "anim.gif", "image/gif"); rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Only .jpeg .jpg .png") {
		t.Errorf("gif upload = %d %s", rec.Code, rec.Body)
	}
	if rec := upload("photo", "avatar.png", "image/png"); rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "File not uploaded") {
		t.Errorf("wrong field = %d %s", rec.Code, rec.Body)
	}
}

func TestNotificationsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	body := fmt.Sprintf(`{"title":"Notify","dueDate":"2025-01-01","assignedTo":[%q]}`, s.alice.ID.Hex())
	if rec := s.do(t, http.MethodPost, "/api/task", s.admin, body); rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}

	rec := s.do(t, http.MethodGet, "/api/notification", s.alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var list []models.Notification
	decodeBody(t, rec, &list)
	if len(list) != 1 || !strings.Contains(list[0].Message, `"Notify"`) {
		t.Fatalf("notifications = %+v", list)
	}

	mark := fmt.Sprintf(`{"id":%q,"createdAt":%q}`, list[0].ID, list[0].CreatedAt.Format(time.RFC3339Nano))
	if rec := s.do(t, http.MethodPut, "/api/notification/read", s.alice, mark); rec.Code != http.StatusOK {
		t.Errorf("mark read = %d %s", rec.Code, rec.Body)
	}
}
