package handlers

import (
	"net/http"

	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/service"
)

type SeasonHandler struct {
	seasonService *service.SeasonService
}

func NewSeasonHandler(seasonService *service.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

func (h *SeasonHandler) Current(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasonService.GetCurrent(r.Context())
	if err != nil {
		respondServiceError(w, "SeasonHandler.Current", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"season":  season,
		"weights": domain.SeasonWeights(season.Totals.Data()),
	})
}

func (h *SeasonHandler) Archived(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.ListArchived(r.Context())
	if err != nil {
		respondServiceError(w, "SeasonHandler.Archived", err)
		return
	}
	respondOK(w, map[string]interface{}{"seasons": seasons})
}

func (h *SeasonHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasonService.Rollover(r.Context())
	if err != nil {
		respondServiceError(w, "SeasonHandler.Rollover", err)
		return
	}
	respondOK(w, map[string]interface{}{"season": season})
}
