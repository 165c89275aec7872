package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/service"
)

type AdminHandler struct {
	adminService  *service.AdminService
	rewardService *service.RewardService
}

func NewAdminHandler(adminService *service.AdminService, rewardService *service.RewardService) *AdminHandler {
	return &AdminHandler{adminService: adminService, rewardService: rewardService}
}

func (h *AdminHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListPendingUsers(r.Context())
	if err != nil {
		respondServiceError(w, "AdminHandler.PendingUsers", err)
		return
	}
	respondOK(w, map[string]interface{}{"users": users})
}

type SetUserStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req SetUserStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	status := domain.ApprovalStatus(req.Status)
	if status != domain.ApprovalApproved && status != domain.ApprovalRejected {
		respondError(w, http.StatusBadRequest, "Status must be approved or rejected")
		return
	}

	if err := h.adminService.SetUserStatus(r.Context(), userID, status); err != nil {
		respondServiceError(w, "AdminHandler.SetUserStatus", err)
		return
	}
	respondOK(w, nil)
}

type EffectRequest struct {
	Kind        string `json:"kind"`
	Attribute   string `json:"attribute"`
	Op          string `json:"op"`
	Value       int    `json:"value"`
	Type        string `json:"type"`
	Probability int    `json:"probability"`
	Duration    int    `json:"duration"`
}

func (e EffectRequest) toDomain() domain.Effect {
	return domain.Effect{
		Kind:        domain.EffectKind(e.Kind),
		Attribute:   e.Attribute,
		Op:          domain.AttrOp(e.Op),
		Value:       e.Value,
		Type:        domain.EffectType(e.Type),
		Probability: e.Probability,
		Duration:    e.Duration,
	}
}

func effectsToDomain(reqs []EffectRequest) []domain.Effect {
	effects := make([]domain.Effect, 0, len(reqs))
	for _, e := range reqs {
		effects = append(effects, e.toDomain())
	}
	return effects
}

type CreateItemRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Price        int             `json:"price"`
	FactionLimit string          `json:"factionLimit"`
	RaceLimit    string          `json:"raceLimit"`
	Effects      []EffectRequest `json:"effects"`
}

func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Item name is required")
		return
	}

	item, err := h.adminService.CreateItem(r.Context(), service.CreateItemInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         domain.ItemType(req.Type),
		Price:        req.Price,
		FactionLimit: domain.Faction(req.FactionLimit),
		RaceLimit:    domain.Race(req.RaceLimit),
		Effects:      effectsToDomain(req.Effects),
	})
	if err != nil {
		respondServiceError(w, "AdminHandler.CreateItem", err)
		return
	}
	respondOK(w, map[string]interface{}{"item": item})
}

type PublishRequest struct {
	Published bool `json:"published"`
}

func (h *AdminHandler) PublishItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req PublishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.adminService.PublishItem(r.Context(), itemID, req.Published); err != nil {
		respondServiceError(w, "AdminHandler.PublishItem", err)
		return
	}
	respondOK(w, nil)
}

type CreateSkillRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Cooldown     int             `json:"cooldown"`
	FactionLimit string          `json:"factionLimit"`
	RaceLimit    string          `json:"raceLimit"`
	Effects      []EffectRequest `json:"effects"`
}

func (h *AdminHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req CreateSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Skill name is required")
		return
	}

	skill, err := h.adminService.CreateSkill(r.Context(), service.CreateSkillInput{
		Name:         req.Name,
		Description:  req.Description,
		Cooldown:     req.Cooldown,
		FactionLimit: domain.Faction(req.FactionLimit),
		RaceLimit:    domain.Race(req.RaceLimit),
		Effects:      effectsToDomain(req.Effects),
	})
	if err != nil {
		respondServiceError(w, "AdminHandler.CreateSkill", err)
		return
	}
	respondOK(w, map[string]interface{}{"skill": skill})
}

type TriggerRequest struct {
	Kind            string `json:"kind"`
	Value           int    `json:"value"`
	ItemID          string `json:"itemId"`
	DamageThreshold int    `json:"damageThreshold"`
}

type CreateTitleRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Hidden      bool            `json:"hidden"`
	Manual      bool            `json:"manual"`
	Trigger     *TriggerRequest `json:"trigger"`
}

func (h *AdminHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Title name is required")
		return
	}
	if !req.Manual && req.Trigger == nil {
		respondError(w, http.StatusBadRequest, "Automatic titles need a trigger")
		return
	}

	var trigger *domain.Trigger
	if req.Trigger != nil {
		trigger = &domain.Trigger{
			Kind:            domain.TriggerKind(req.Trigger.Kind),
			Value:           req.Trigger.Value,
			ItemID:          req.Trigger.ItemID,
			DamageThreshold: req.Trigger.DamageThreshold,
		}
	}

	title, err := h.adminService.CreateTitle(r.Context(), service.CreateTitleInput{
		Name:        req.Name,
		Description: req.Description,
		Hidden:      req.Hidden,
		Manual:      req.Manual,
		Trigger:     trigger,
	})
	if err != nil {
		respondServiceError(w, "AdminHandler.CreateTitle", err)
		return
	}
	respondOK(w, map[string]interface{}{"title": title})
}

type CreateTaskRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	HonorReward      int    `json:"honorReward"`
	CurrencyReward   int    `json:"currencyReward"`
	ItemRewardID     string `json:"itemRewardId"`
	SingleSubmission bool   `json:"singleSubmission"`
}

func (h *AdminHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Task name is required")
		return
	}

	var itemRewardID *uuid.UUID
	if req.ItemRewardID != "" {
		id, err := uuid.Parse(req.ItemRewardID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid item reward ID")
			return
		}
		itemRewardID = &id
	}

	task, err := h.adminService.CreateTask(r.Context(), service.CreateTaskInput{
		Name:             req.Name,
		Description:      req.Description,
		HonorReward:      req.HonorReward,
		CurrencyReward:   req.CurrencyReward,
		ItemRewardID:     itemRewardID,
		SingleSubmission: req.SingleSubmission,
	})
	if err != nil {
		respondServiceError(w, "AdminHandler.CreateTask", err)
		return
	}
	respondOK(w, map[string]interface{}{"task": task})
}

func (h *AdminHandler) PublishTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req PublishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.adminService.PublishTask(r.Context(), taskID, req.Published); err != nil {
		respondServiceError(w, "AdminHandler.PublishTask", err)
		return
	}
	respondOK(w, nil)
}

type CreateRecipeRequest struct {
	Name         string         `json:"name"`
	Ingredients  map[string]int `json:"ingredients"`
	OutputItemID string         `json:"outputItemId"`
}

func (h *AdminHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || len(req.Ingredients) == 0 {
		respondError(w, http.StatusBadRequest, "Recipe name and ingredients are required")
		return
	}
	outputItemID, err := uuid.Parse(req.OutputItemID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid output item ID")
		return
	}

	recipe, err := h.adminService.CreateRecipe(r.Context(), service.CreateRecipeInput{
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		OutputItemID: outputItemID,
	})
	if err != nil {
		respondServiceError(w, "AdminHandler.CreateRecipe", err)
		return
	}
	respondOK(w, map[string]interface{}{"recipe": recipe})
}

func (h *AdminHandler) PublishRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var req PublishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.adminService.PublishRecipe(r.Context(), recipeID, req.Published); err != nil {
		respondServiceError(w, "AdminHandler.PublishRecipe", err)
		return
	}
	respondOK(w, nil)
}

type RewardFilterRequest struct {
	Faction               string `json:"faction"`
	Race                  string `json:"race"`
	HonorOp               string `json:"honorOp"`
	HonorValue            int    `json:"honorValue"`
	CurrencyOp            string `json:"currencyOp"`
	CurrencyValue         int    `json:"currencyValue"`
	TaskCountOp           string `json:"taskCountOp"`
	TaskCountValue        int    `json:"taskCountValue"`
	BattleID              string `json:"battleId"`
	BattleDamageThreshold int    `json:"battleDamageThreshold"`
}

type DistributeRequest struct {
	UserIDs       []string             `json:"userIds"`
	Filter        *RewardFilterRequest `json:"filter"`
	Honor         int                  `json:"honor"`
	Currency      int                  `json:"currency"`
	ItemID        string               `json:"itemId"`
	TitleID       string               `json:"titleId"`
	EndOfBattleID string               `json:"endOfBattleId"`
	Description   string               `json:"description"`
}

func (h *AdminHandler) DistributeRewards(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := service.DistributeInput{
		Rewards: service.RewardBundle{
			Honor:    req.Honor,
			Currency: req.Currency,
		},
		Description: req.Description,
	}

	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user ID in target list")
			return
		}
		input.UserIDs = append(input.UserIDs, id)
	}

	if req.ItemID != "" {
		id, err := uuid.Parse(req.ItemID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid item ID")
			return
		}
		input.Rewards.ItemID = &id
	}
	if req.TitleID != "" {
		id, err := uuid.Parse(req.TitleID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid title ID")
			return
		}
		input.Rewards.TitleID = &id
	}
	if req.EndOfBattleID != "" {
		id, err := uuid.Parse(req.EndOfBattleID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid battle ID")
			return
		}
		input.EndOfBattleID = &id
	}

	if req.Filter != nil {
		filter := &service.RewardFilter{
			Faction:               domain.Faction(req.Filter.Faction),
			Race:                  domain.Race(req.Filter.Race),
			HonorOp:               req.Filter.HonorOp,
			HonorValue:            req.Filter.HonorValue,
			CurrencyOp:            req.Filter.CurrencyOp,
			CurrencyValue:         req.Filter.CurrencyValue,
			TaskCountOp:           req.Filter.TaskCountOp,
			TaskCountValue:        req.Filter.TaskCountValue,
			BattleDamageThreshold: req.Filter.BattleDamageThreshold,
		}
		if req.Filter.BattleID != "" {
			id, err := uuid.Parse(req.Filter.BattleID)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid battle ID in filter")
				return
			}
			filter.BattleID = &id
		}
		input.Filter = filter
	}

	result, err := h.rewardService.Distribute(r.Context(), input)
	if err != nil {
		respondServiceError(w, "AdminHandler.DistributeRewards", err)
		return
	}

	respondOK(w, map[string]interface{}{
		"processed": result.Processed,
		"users":     result.Users,
	})
}

func (h *AdminHandler) ArchiveLogs(w http.ResponseWriter, r *http.Request) {
	archived, err := h.adminService.ArchiveBufferedLogs(r.Context())
	if err != nil {
		respondServiceError(w, "AdminHandler.ArchiveLogs", err)
		return
	}
	respondOK(w, map[string]interface{}{"archived": archived})
}
