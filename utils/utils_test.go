package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"

	"github.com/xuri/excelize/v2"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("S3cret!pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "S3cret!pass") {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword should reject a different password")
	}
}

func TestRenderSpreadsheet(t *testing.T) {
	columns := []Column{
		{Header: "User Name", Key: "name", Width: 35},
		{Header: "Total Assigned Tasks", Key: "taskCount", Width: 15},
	}
	rows := []map[string]any{
		{"name": "Ana", "taskCount": 3},
		{"name": "Marko", "taskCount": 0},
	}

	data, err := RenderSpreadsheet("User Task Report", columns, rows)
	if err != nil {
		t.Fatalf("RenderSpreadsheet() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("User Task Report")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{
		{"User Name", "Total Assigned Tasks"},
		{"Ana", "3"},
		{"Marko", "0"},
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if strings.Join(got[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDiskStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStorage(dir)
	if err != nil {
		t.Fatalf("NewDiskStorage() error = %v", err)
	}
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	name, err := store.Save("../../etc/avatar.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if name != "1700000000000-avatar.png" {
		t.Errorf("name = %q", name)
	}
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "png-bytes" {
		t.Errorf("content = %q", content)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantCause  string
	}{
		{"invalid input", apperrors.Invalid("Title is required"), http.StatusBadRequest, "Title is required", ""},
		{"not found", apperrors.Missing("No Task Found"), http.StatusNotFound, "No Task Found", ""},
		{"internal", apperrors.Internalf(errors.New("db down"), "Failed to fetch tasks"), http.StatusInternalServerError, "Failed to fetch tasks", "db down"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Server Error", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.wantMsg || body.Error != tt.wantCause {
				t.Errorf("body = %+v, want message %q error %q", body, tt.wantMsg, tt.wantCause)
			}
		})
	}
}
