package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListPublished(r.Context())
	if err != nil {
		respondServiceError(w, "TaskHandler.List", err)
		return
	}
	respondOK(w, map[string]interface{}{"tasks": tasks})
}

type SubmitTaskRequest struct {
	Content string `json:"content"`
}

func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req SubmitTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	submission, err := h.taskService.Submit(r.Context(), taskID, userID, req.Content)
	if err != nil {
		respondServiceError(w, "TaskHandler.Submit", err)
		return
	}

	respondOK(w, map[string]interface{}{"submission": submission})
}

func (h *TaskHandler) PendingSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.taskService.ListPendingSubmissions(r.Context())
	if err != nil {
		respondServiceError(w, "TaskHandler.PendingSubmissions", err)
		return
	}
	respondOK(w, map[string]interface{}{"submissions": submissions})
}

func (h *TaskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(chi.URLParam(r, "submissionId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	if err := h.taskService.Approve(r.Context(), submissionID); err != nil {
		respondServiceError(w, "TaskHandler.Approve", err)
		return
	}
	respondOK(w, nil)
}

func (h *TaskHandler) Reject(w http.ResponseWriter, r *http.Request) {
	submissionID, err := uuid.Parse(chi.URLParam(r, "submissionId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	if err := h.taskService.Reject(r.Context(), submissionID); err != nil {
		respondServiceError(w, "TaskHandler.Reject", err)
		return
	}
	respondOK(w, nil)
}
