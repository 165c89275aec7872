package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/service"
)

type TitleHandler struct {
	titleService *service.TitleService
}

func NewTitleHandler(titleService *service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// List returns the visible catalog; hidden titles stay hidden until earned.
func (h *TitleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	titles, err := h.titleService.ListVisible(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "TitleHandler.List", err)
		return
	}
	respondOK(w, map[string]interface{}{"titles": titles})
}

// Evaluate re-checks the caller's automatic titles and reports new grants.
func (h *TitleHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	granted, err := h.titleService.Evaluate(r.Context(), userID, nil)
	if err != nil {
		respondServiceError(w, "TitleHandler.Evaluate", err)
		return
	}
	respondOK(w, map[string]interface{}{"granted": granted})
}

type GrantTitleRequest struct {
	UserID string `json:"userId"`
}

func (h *TitleHandler) Grant(w http.ResponseWriter, r *http.Request) {
	titleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid title ID")
		return
	}

	var req GrantTitleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.titleService.GrantManual(r.Context(), userID, titleID); err != nil {
		respondServiceError(w, "TitleHandler.Grant", err)
		return
	}
	respondOK(w, nil)
}
