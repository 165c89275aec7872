package handlers

import (
	"net/http"

	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Faction     string `json:"faction"`
	Race        string `json:"race"`
}

type LoginRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Password == "" || req.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "Display name and password are required")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Faction:     domain.Faction(req.Faction),
		Race:        domain.Race(req.Race),
	})
	if err != nil {
		respondServiceError(w, "AuthHandler.Register", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.DisplayName == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Display name and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(w, "AuthHandler.Login", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, "AuthHandler.Me", err)
		return
	}

	respondOK(w, map[string]interface{}{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		respondServiceError(w, "AuthHandler.Logout", err)
		return
	}

	respondOK(w, nil)
}
