package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/utils"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, services.TasksReportFile, h.service.TasksReport)
}

func (h *ReportHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, services.UsersReportFile, h.service.UsersReport)
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, filename string, render func(context.Context) ([]byte, error)) {
	data, err := render(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", utils.SpreadsheetContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Logger.Errorf("Event ID: REPORT_WRITE_FAILED, Description: Failed to send %s: %v", filename, err)
	}
}
