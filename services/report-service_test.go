package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/testutil"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildUserReportRowsCountsEveryOccurrence(t *testing.T) {
	ana := models.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com"}
	idle := models.User{ID: primitive.NewObjectID(), Name: "Idle", Email: "idle@example.com"}

	tasks := []models.Task{
		{Status: models.StatusPending, AssignedTo: []primitive.ObjectID{ana.ID, ana.ID}},
		{Status: models.StatusCompleted, AssignedTo: []primitive.ObjectID{ana.ID}},
		{Status: models.StatusInProgress, AssignedTo: []primitive.ObjectID{primitive.NewObjectID()}},
	}

	rows := BuildUserReportRows([]models.User{ana, idle}, tasks)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["taskCount"] != 3 || rows[0]["pendingTasks"] != 2 || rows[0]["completedTasks"] != 1 {
		t.Errorf("ana row = %v", rows[0])
	}
	if rows[1]["taskCount"] != 0 || rows[1]["inProgressTasks"] != 0 {
		t.Errorf("idle row should be zero-filled: %v", rows[1])
	}
}

func TestBuildTaskReportRows(t *testing.T) {
	ana := models.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com"}
	bo := models.User{ID: primitive.NewObjectID(), Name: "Bo", Email: "bo@example.com"}
	users := map[primitive.ObjectID]models.User{ana.ID: ana, bo.ID: bo}

	due := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: primitive.NewObjectID(), Title: "Both", Priority: models.PriorityHigh, Status: models.StatusPending, DueDate: due, AssignedTo: []primitive.ObjectID{ana.ID, bo.ID}},
		{ID: primitive.NewObjectID(), Title: "Nobody", DueDate: due},
	}

	rows := BuildTaskReportRows(tasks, users)
	if got := rows[0]["assignedTo"]; got != "Ana (ana@example.com), Bo (bo@example.com)" {
		t.Errorf("assignedTo = %q", got)
	}
	if got := rows[0]["dueDate"]; got != "2025-03-09" {
		t.Errorf("dueDate = %q", got)
	}
	if got := rows[1]["assignedTo"]; got != "Unassigned" {
		t.Errorf("assignedTo = %q, want Unassigned", got)
	}
	if rows[0]["id"] != tasks[0].ID.Hex() {
		t.Errorf("id = %v", rows[0]["id"])
	}
}

func TestUsersReportWorkbook(t *testing.T) {
	users := testutil.NewMemoryUserStore()
	tasks := testutil.NewMemoryTaskStore()
	testutil.SeedUser(t, users, "Admin", "admin@example.com", models.RoleAdmin)
	ana := testutil.SeedUser(t, users, "Ana", "ana@example.com", models.RoleMember)
	testutil.SeedTask(t, tasks, "one", testutil.AssignedTo(ana.ID))

	data, err := NewReportService(tasks, users).UsersReport(context.Background())
	if err != nil {
		t.Fatalf("UsersReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(usersReportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 member", len(rows))
	}
	if rows[0][0] != "User Name" || rows[0][5] != "Completed Tasks" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Ana" || rows[1][2] != "1" || rows[1][3] != "1" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestTasksReportWorkbook(t *testing.T) {
	users := testutil.NewMemoryUserStore()
	tasks := testutil.NewMemoryTaskStore()
	ana := testutil.SeedUser(t, users, "Ana", "ana@example.com", models.RoleMember)
	testutil.SeedTask(t, tasks, "Write docs", testutil.AssignedTo(ana.ID))

	data, err := NewReportService(tasks, users).TasksReport(context.Background())
	if err != nil {
		t.Fatalf("TasksReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(tasksReportSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Write docs" || rows[1][6] != "Ana (ana@example.com)" {
		t.Errorf("rows = %v", rows)
	}
}
