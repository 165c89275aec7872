package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/service"
)

// Every response body carries a success flag; failures add a human-readable
// error message the terminal client prints verbatim.

func respondOK(w http.ResponseWriter, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// respondServiceError maps known sentinels to client-facing statuses and hides
// everything else behind a 500.
func respondServiceError(w http.ResponseWriter, tag string, err error) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.err.Error())
			return
		}
	}
	log.Printf("ERROR [%s] %v", tag, err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrEncounterNotFound, http.StatusNotFound},
	{service.ErrMonsterNotFound, http.StatusNotFound},
	{service.ErrItemNotFound, http.StatusNotFound},
	{service.ErrSkillNotFound, http.StatusNotFound},
	{service.ErrRecipeNotFound, http.StatusNotFound},
	{service.ErrTaskNotFound, http.StatusNotFound},
	{service.ErrSubmissionNotFound, http.StatusNotFound},
	{service.ErrTitleNotFound, http.StatusNotFound},
	{service.ErrNoCurrentSeason, http.StatusNotFound},
	{domain.ErrTargetNotFound, http.StatusNotFound},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},

	{service.ErrDisplayNameExists, http.StatusConflict},
	{service.ErrDuplicateSubmission, http.StatusConflict},
	{service.ErrSubmissionReviewed, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},

	{service.ErrInvalidFaction, http.StatusBadRequest},
	{service.ErrInvalidRace, http.StatusBadRequest},
	{service.ErrItemNotOwned, http.StatusBadRequest},
	{service.ErrItemNotPublished, http.StatusBadRequest},
	{service.ErrRecipeNotPublished, http.StatusBadRequest},
	{service.ErrTaskNotPublished, http.StatusBadRequest},
	{service.ErrMissingIngredients, http.StatusBadRequest},
	{domain.ErrMissingTarget, http.StatusBadRequest},
	{domain.ErrTargetAlreadyDefeated, http.StatusBadRequest},
	{domain.ErrInsufficientCurrency, http.StatusBadRequest},
	{domain.ErrFactionRestricted, http.StatusBadRequest},
	{domain.ErrRaceRestricted, http.StatusBadRequest},
	{domain.ErrEncounterNotActive, http.StatusBadRequest},
	{domain.ErrNotParticipant, http.StatusBadRequest},
	{domain.ErrParticipantDown, http.StatusBadRequest},
	{domain.ErrSkillOnCooldown, http.StatusBadRequest},
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
