package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/service"
)

type ShopHandler struct {
	itemService *service.ItemService
}

func NewShopHandler(itemService *service.ItemService) *ShopHandler {
	return &ShopHandler{itemService: itemService}
}

func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListPublished(r.Context())
	if err != nil {
		respondServiceError(w, "ShopHandler.ListItems", err)
		return
	}
	respondOK(w, map[string]interface{}{"items": items})
}

func (h *ShopHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	user, err := h.itemService.Buy(r.Context(), userID, itemID)
	if err != nil {
		respondServiceError(w, "ShopHandler.Buy", err)
		return
	}

	respondOK(w, map[string]interface{}{"user": user})
}

func (h *ShopHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.itemService.ListRecipes(r.Context())
	if err != nil {
		respondServiceError(w, "ShopHandler.ListRecipes", err)
		return
	}
	respondOK(w, map[string]interface{}{"recipes": recipes})
}

func (h *ShopHandler) Craft(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	user, err := h.itemService.Craft(r.Context(), userID, recipeID)
	if err != nil {
		respondServiceError(w, "ShopHandler.Craft", err)
		return
	}

	respondOK(w, map[string]interface{}{"user": user})
}
