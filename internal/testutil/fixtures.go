package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	role        domain.UserRole
	status      domain.ApprovalStatus
	faction     domain.Faction
	race        domain.Race
	honor       int
	currency    int
	inventory   map[string]int
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
		role:        domain.RolePlayer,
		status:      domain.ApprovalApproved,
		faction:     domain.FactionYelu,
		race:        domain.RaceHuman,
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsAdmin marks the user as an administrator
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// WithStatus sets the approval status
func (b *UserBuilder) WithStatus(status domain.ApprovalStatus) *UserBuilder {
	b.status = status
	return b
}

// WithFaction sets the faction
func (b *UserBuilder) WithFaction(faction domain.Faction) *UserBuilder {
	b.faction = faction
	return b
}

// WithRace sets the race
func (b *UserBuilder) WithRace(race domain.Race) *UserBuilder {
	b.race = race
	return b
}

// WithHonor sets the honor points
func (b *UserBuilder) WithHonor(honor int) *UserBuilder {
	b.honor = honor
	return b
}

// WithCurrency sets the currency balance
func (b *UserBuilder) WithCurrency(currency int) *UserBuilder {
	b.currency = currency
	return b
}

// WithItem adds an inventory entry
func (b *UserBuilder) WithItem(itemID string, count int) *UserBuilder {
	if b.inventory == nil {
		b.inventory = make(map[string]int)
	}
	b.inventory[itemID] = count
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	inventory := b.inventory
	if inventory == nil {
		inventory = map[string]int{}
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		Status:       b.status,
		Faction:      b.faction,
		Race:         b.race,
		HonorPoints:  b.honor,
		Currency:     b.currency,
		Inventory:    datatypes.NewJSONType(inventory),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Success bool `json:"success"`
	User    struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates the user in the database and logs in via the
// API, returning the user and an access token. Registration alone is not
// enough because new accounts start unapproved.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, authResp.AccessToken
}

// ItemBuilder creates test items with a builder pattern
type ItemBuilder struct {
	name         string
	itemType     domain.ItemType
	price        int
	factionLimit domain.Faction
	raceLimit    domain.Race
	published    bool
	effects      []domain.Effect
}

// NewItemBuilder creates a new ItemBuilder with default values
func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		name:         fmt.Sprintf("item_%s", uuid.New().String()[:8]),
		itemType:     domain.ItemTypeConsumable,
		price:        10,
		factionLimit: domain.FactionAll,
		raceLimit:    domain.RaceAll,
		published:    true,
	}
}

func (b *ItemBuilder) WithName(name string) *ItemBuilder {
	b.name = name
	return b
}

func (b *ItemBuilder) WithType(itemType domain.ItemType) *ItemBuilder {
	b.itemType = itemType
	return b
}

func (b *ItemBuilder) WithPrice(price int) *ItemBuilder {
	b.price = price
	return b
}

func (b *ItemBuilder) WithFactionLimit(faction domain.Faction) *ItemBuilder {
	b.factionLimit = faction
	return b
}

func (b *ItemBuilder) WithRaceLimit(race domain.Race) *ItemBuilder {
	b.raceLimit = race
	return b
}

func (b *ItemBuilder) Unpublished() *ItemBuilder {
	b.published = false
	return b
}

func (b *ItemBuilder) WithEffect(effect domain.Effect) *ItemBuilder {
	b.effects = append(b.effects, effect)
	return b
}

func (b *ItemBuilder) Build(t *testing.T, db *gorm.DB) *domain.Item {
	t.Helper()

	item := &domain.Item{
		ID:           uuid.New(),
		Name:         b.name,
		Type:         b.itemType,
		Price:        b.price,
		FactionLimit: b.factionLimit,
		RaceLimit:    b.raceLimit,
		Published:    b.published,
		Effects:      datatypes.NewJSONType(b.effects),
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	return item
}

// SkillBuilder creates test skills with a builder pattern
type SkillBuilder struct {
	name     string
	cooldown int
	effects  []domain.Effect
}

func NewSkillBuilder() *SkillBuilder {
	return &SkillBuilder{
		name:     fmt.Sprintf("skill_%s", uuid.New().String()[:8]),
		cooldown: 2,
	}
}

func (b *SkillBuilder) WithName(name string) *SkillBuilder {
	b.name = name
	return b
}

func (b *SkillBuilder) WithCooldown(cooldown int) *SkillBuilder {
	b.cooldown = cooldown
	return b
}

func (b *SkillBuilder) WithEffect(effect domain.Effect) *SkillBuilder {
	b.effects = append(b.effects, effect)
	return b
}

func (b *SkillBuilder) Build(t *testing.T, db *gorm.DB) *domain.Skill {
	t.Helper()

	skill := &domain.Skill{
		ID:           uuid.New(),
		Name:         b.name,
		Cooldown:     b.cooldown,
		FactionLimit: domain.FactionAll,
		RaceLimit:    domain.RaceAll,
		Effects:      datatypes.NewJSONType(b.effects),
	}

	if err := db.Create(skill).Error; err != nil {
		t.Fatalf("failed to create skill: %v", err)
	}

	return skill
}

// EncounterBuilder creates test encounters with a builder pattern
type EncounterBuilder struct {
	name      string
	status    domain.EncounterStatus
	monsters  []domain.Monster
	createdBy uuid.UUID
}

func NewEncounterBuilder(createdBy uuid.UUID) *EncounterBuilder {
	return &EncounterBuilder{
		name:      fmt.Sprintf("encounter_%s", uuid.New().String()[:8]),
		status:    domain.EncounterActive,
		createdBy: createdBy,
	}
}

func (b *EncounterBuilder) WithName(name string) *EncounterBuilder {
	b.name = name
	return b
}

func (b *EncounterBuilder) WithStatus(status domain.EncounterStatus) *EncounterBuilder {
	b.status = status
	return b
}

func (b *EncounterBuilder) WithMonster(name string, hp int, atkFormula string) *EncounterBuilder {
	b.monsters = append(b.monsters, domain.Monster{
		ID:         uuid.New().String(),
		Name:       name,
		HP:         hp,
		OriginalHP: hp,
		AtkFormula: atkFormula,
	})
	return b
}

func (b *EncounterBuilder) Build(t *testing.T, db *gorm.DB) *domain.Encounter {
	t.Helper()

	encounter := &domain.Encounter{
		ID:           uuid.New(),
		Name:         b.name,
		Status:       b.status,
		Monsters:     datatypes.NewJSONType(b.monsters),
		Participants: datatypes.NewJSONType(map[string]domain.Participant{}),
		CreatedBy:    b.createdBy,
	}

	if err := db.Create(encounter).Error; err != nil {
		t.Fatalf("failed to create encounter: %v", err)
	}

	return encounter
}

// TitleBuilder creates test titles with a builder pattern
type TitleBuilder struct {
	name    string
	hidden  bool
	manual  bool
	trigger *domain.Trigger
}

func NewTitleBuilder() *TitleBuilder {
	return &TitleBuilder{
		name: fmt.Sprintf("title_%s", uuid.New().String()[:8]),
	}
}

func (b *TitleBuilder) WithName(name string) *TitleBuilder {
	b.name = name
	return b
}

func (b *TitleBuilder) Hidden() *TitleBuilder {
	b.hidden = true
	return b
}

func (b *TitleBuilder) Manual() *TitleBuilder {
	b.manual = true
	return b
}

func (b *TitleBuilder) WithTrigger(trigger domain.Trigger) *TitleBuilder {
	b.trigger = &trigger
	return b
}

func (b *TitleBuilder) Build(t *testing.T, db *gorm.DB) *domain.Title {
	t.Helper()

	title := &domain.Title{
		ID:          uuid.New(),
		Name:        b.name,
		Hidden:      b.hidden,
		Manual:      b.manual,
		Trigger:     datatypes.NewJSONType(b.trigger),
	}

	if err := db.Create(title).Error; err != nil {
		t.Fatalf("failed to create title: %v", err)
	}

	return title
}

// TaskBuilder creates test tasks with a builder pattern
type TaskBuilder struct {
	name             string
	honorReward      int
	currencyReward   int
	itemRewardID     *uuid.UUID
	singleSubmission bool
	published        bool
}

func NewTaskBuilder() *TaskBuilder {
	return &TaskBuilder{
		name:        fmt.Sprintf("task_%s", uuid.New().String()[:8]),
		honorReward: 10,
		published:   true,
	}
}

func (b *TaskBuilder) WithName(name string) *TaskBuilder {
	b.name = name
	return b
}

func (b *TaskBuilder) WithRewards(honor, currency int) *TaskBuilder {
	b.honorReward = honor
	b.currencyReward = currency
	return b
}

func (b *TaskBuilder) WithItemReward(itemID uuid.UUID) *TaskBuilder {
	b.itemRewardID = &itemID
	return b
}

func (b *TaskBuilder) SingleSubmission() *TaskBuilder {
	b.singleSubmission = true
	return b
}

func (b *TaskBuilder) Unpublished() *TaskBuilder {
	b.published = false
	return b
}

func (b *TaskBuilder) Build(t *testing.T, db *gorm.DB) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:               uuid.New(),
		Name:             b.name,
		HonorReward:      b.honorReward,
		CurrencyReward:   b.currencyReward,
		ItemRewardID:     b.itemRewardID,
		SingleSubmission: b.singleSubmission,
		Published:        b.published,
	}

	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// RecipeBuilder creates test recipes with a builder pattern
type RecipeBuilder struct {
	name         string
	ingredients  map[string]int
	outputItemID uuid.UUID
	published    bool
}

func NewRecipeBuilder(outputItemID uuid.UUID) *RecipeBuilder {
	return &RecipeBuilder{
		name:         fmt.Sprintf("recipe_%s", uuid.New().String()[:8]),
		ingredients:  map[string]int{},
		outputItemID: outputItemID,
		published:    true,
	}
}

func (b *RecipeBuilder) WithIngredient(itemID string, count int) *RecipeBuilder {
	b.ingredients[itemID] = count
	return b
}

func (b *RecipeBuilder) Unpublished() *RecipeBuilder {
	b.published = false
	return b
}

func (b *RecipeBuilder) Build(t *testing.T, db *gorm.DB) *domain.Recipe {
	t.Helper()

	recipe := &domain.Recipe{
		ID:           uuid.New(),
		Name:         b.name,
		Ingredients:  datatypes.NewJSONType(b.ingredients),
		OutputItemID: b.outputItemID,
		Published:    b.published,
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	return recipe
}

// SeasonBuilder creates seasons with a builder pattern
type SeasonBuilder struct {
	status domain.SeasonStatus
	totals map[domain.Faction]domain.FactionTotals
}

func NewSeasonBuilder() *SeasonBuilder {
	return &SeasonBuilder{
		status: domain.SeasonCurrent,
		totals: domain.EmptyTotals(),
	}
}

func (b *SeasonBuilder) Archived() *SeasonBuilder {
	b.status = domain.SeasonArchived
	return b
}

func (b *SeasonBuilder) WithTotals(totals map[domain.Faction]domain.FactionTotals) *SeasonBuilder {
	b.totals = totals
	return b
}

func (b *SeasonBuilder) Build(t *testing.T, db *gorm.DB) *domain.Season {
	t.Helper()

	season := &domain.Season{
		ID:        uuid.New(),
		Status:    b.status,
		Totals:    datatypes.NewJSONType(b.totals),
		StartedAt: time.Now(),
	}
	if b.status == domain.SeasonArchived {
		now := time.Now()
		season.ArchivedAt = &now
	}

	if err := db.Create(season).Error; err != nil {
		t.Fatalf("failed to create season: %v", err)
	}

	return season
}
