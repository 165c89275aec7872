package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/api/middleware"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/service"
)

type EncounterHandler struct {
	combatService *service.CombatService
}

func NewEncounterHandler(combatService *service.CombatService) *EncounterHandler {
	return &EncounterHandler{combatService: combatService}
}

type MonsterRequest struct {
	Name       string `json:"name"`
	HP         int    `json:"hp"`
	AtkFormula string `json:"atkFormula"`
}

type CreateEncounterRequest struct {
	Name     string           `json:"name"`
	Monsters []MonsterRequest `json:"monsters"`
}

func (h *EncounterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateEncounterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Encounter name is required")
		return
	}

	monsters := make([]service.MonsterInput, 0, len(req.Monsters))
	for _, m := range req.Monsters {
		monsters = append(monsters, service.MonsterInput{
			Name:       m.Name,
			HP:         m.HP,
			AtkFormula: m.AtkFormula,
		})
	}

	encounter, err := h.combatService.CreateEncounter(r.Context(), service.CreateEncounterInput{
		Name:      req.Name,
		Monsters:  monsters,
		CreatedBy: userID,
	})
	if err != nil {
		respondServiceError(w, "EncounterHandler.Create", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounter": encounter})
}

func (h *EncounterHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	encounters, err := h.combatService.ListEncounters(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, "EncounterHandler.List", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounters": encounters})
}

func (h *EncounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	encounter, err := h.combatService.GetEncounter(r.Context(), encounterID)
	if err != nil {
		respondServiceError(w, "EncounterHandler.Get", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounter": encounter})
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

func (h *EncounterHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	var req SetStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	encounter, err := h.combatService.SetStatus(r.Context(), encounterID, domain.EncounterStatus(req.Status))
	if err != nil {
		respondServiceError(w, "EncounterHandler.SetStatus", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounter": encounter})
}

func (h *EncounterHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	encounter, err := h.combatService.JoinEncounter(r.Context(), encounterID, userID)
	if err != nil {
		respondServiceError(w, "EncounterHandler.Join", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounter": encounter})
}

type AttackRequest struct {
	MonsterID string `json:"monsterId"`
}

func (h *EncounterHandler) Attack(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	var req AttackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MonsterID == "" {
		respondError(w, http.StatusBadRequest, "Monster ID is required")
		return
	}

	result, err := h.combatService.Attack(r.Context(), service.AttackInput{
		EncounterID: encounterID,
		UserID:      userID,
		MonsterID:   req.MonsterID,
	})
	if err != nil {
		respondServiceError(w, "EncounterHandler.Attack", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"encounter":     result.Encounter,
		"damage":        result.EffectiveAttack,
		"counterDamage": result.CounterDamage,
		"log":           result.Log,
	})
}

type UseItemRequest struct {
	ItemID          string `json:"itemId"`
	TargetMonsterID string `json:"targetMonsterId"`
}

func (h *EncounterHandler) UseItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	var req UseItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	result, err := h.combatService.UseItem(r.Context(), service.UseItemInput{
		EncounterID:     encounterID,
		UserID:          userID,
		ItemID:          itemID,
		TargetMonsterID: req.TargetMonsterID,
	})
	if err != nil {
		respondServiceError(w, "EncounterHandler.UseItem", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"encounter":   result.Encounter,
		"fragments":   result.Fragments,
		"totalDamage": result.TotalDamage,
		"log":         result.Log,
	})
}

type UseSkillRequest struct {
	SkillID         string `json:"skillId"`
	TargetMonsterID string `json:"targetMonsterId"`
}

func (h *EncounterHandler) UseSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	var req UseSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid skill ID")
		return
	}

	result, err := h.combatService.UseSkill(r.Context(), service.UseSkillInput{
		EncounterID:     encounterID,
		UserID:          userID,
		SkillID:         skillID,
		TargetMonsterID: req.TargetMonsterID,
	})
	if err != nil {
		respondServiceError(w, "EncounterHandler.UseSkill", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"encounter":   result.Encounter,
		"fragments":   result.Fragments,
		"totalDamage": result.TotalDamage,
		"log":         result.Log,
	})
}

func (h *EncounterHandler) Tick(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	encounter, err := h.combatService.TickTurn(r.Context(), encounterID)
	if err != nil {
		respondServiceError(w, "EncounterHandler.Tick", err)
		return
	}

	respondOK(w, map[string]interface{}{"encounter": encounter})
}

func (h *EncounterHandler) Logs(w http.ResponseWriter, r *http.Request) {
	encounterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid encounter ID")
		return
	}

	logs, err := h.combatService.GetLogs(r.Context(), encounterID)
	if err != nil {
		respondServiceError(w, "EncounterHandler.Logs", err)
		return
	}

	respondOK(w, map[string]interface{}{"logs": logs})
}
