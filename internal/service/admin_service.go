package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
	"gorm.io/datatypes"
)

// AdminService holds the privileged catalog and account operations. Callers
// are authorized by the role claim on their verified identity, checked in
// middleware — there is no embedded admin credential.
type AdminService struct {
	repos *repository.Repositories
}

func NewAdminService(repos *repository.Repositories) *AdminService {
	return &AdminService{repos: repos}
}

func (s *AdminService) ListPendingUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repos.User.ListPending(ctx)
}

func (s *AdminService) SetUserStatus(ctx context.Context, userID uuid.UUID, status domain.ApprovalStatus) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		user.Status = status
		return tx.User.Update(ctx, user)
	})
}

type CreateItemInput struct {
	Name         string
	Description  string
	Type         domain.ItemType
	Price        int
	FactionLimit domain.Faction
	RaceLimit    domain.Race
	Effects      []domain.Effect
}

func (s *AdminService) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	item := &domain.Item{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		Type:         input.Type,
		Price:        input.Price,
		FactionLimit: defaultFaction(input.FactionLimit),
		RaceLimit:    defaultRace(input.RaceLimit),
		Effects:      datatypes.NewJSONType(input.Effects),
	}
	if err := s.repos.Item.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *AdminService) PublishItem(ctx context.Context, itemID uuid.UUID, published bool) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		item, err := tx.Item.GetByID(ctx, itemID)
		if err != nil {
			return ErrItemNotFound
		}
		item.Published = published
		return tx.Item.Update(ctx, item)
	})
}

type CreateSkillInput struct {
	Name         string
	Description  string
	Cooldown     int
	FactionLimit domain.Faction
	RaceLimit    domain.Race
	Effects      []domain.Effect
}

func (s *AdminService) CreateSkill(ctx context.Context, input CreateSkillInput) (*domain.Skill, error) {
	skill := &domain.Skill{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		Cooldown:     input.Cooldown,
		FactionLimit: defaultFaction(input.FactionLimit),
		RaceLimit:    defaultRace(input.RaceLimit),
		Effects:      datatypes.NewJSONType(input.Effects),
	}
	if err := s.repos.Skill.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

type CreateTitleInput struct {
	Name        string
	Description string
	Hidden      bool
	Manual      bool
	Trigger     *domain.Trigger
}

func (s *AdminService) CreateTitle(ctx context.Context, input CreateTitleInput) (*domain.Title, error) {
	title := &domain.Title{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Hidden:      input.Hidden,
		Manual:      input.Manual,
		Trigger:     datatypes.NewJSONType(input.Trigger),
	}
	if err := s.repos.Title.Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

type CreateTaskInput struct {
	Name             string
	Description      string
	HonorReward      int
	CurrencyReward   int
	ItemRewardID     *uuid.UUID
	SingleSubmission bool
}

func (s *AdminService) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		ID:               uuid.New(),
		Name:             input.Name,
		Description:      input.Description,
		HonorReward:      input.HonorReward,
		CurrencyReward:   input.CurrencyReward,
		ItemRewardID:     input.ItemRewardID,
		SingleSubmission: input.SingleSubmission,
	}
	if err := s.repos.Task.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *AdminService) PublishTask(ctx context.Context, taskID uuid.UUID, published bool) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		task, err := tx.Task.GetByID(ctx, taskID)
		if err != nil {
			return ErrTaskNotFound
		}
		task.Published = published
		return tx.Task.Update(ctx, task)
	})
}

type CreateRecipeInput struct {
	Name         string
	Ingredients  map[string]int
	OutputItemID uuid.UUID
}

func (s *AdminService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*domain.Recipe, error) {
	recipe := &domain.Recipe{
		ID:           uuid.New(),
		Name:         input.Name,
		Ingredients:  datatypes.NewJSONType(input.Ingredients),
		OutputItemID: input.OutputItemID,
	}
	if err := s.repos.Recipe.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *AdminService) PublishRecipe(ctx context.Context, recipeID uuid.UUID, published bool) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		recipe, err := tx.Recipe.GetByID(ctx, recipeID)
		if err != nil {
			return ErrRecipeNotFound
		}
		recipe.Published = published
		return tx.Recipe.Update(ctx, recipe)
	})
}

// ArchiveBufferedLogs drains the fast-append buffer into the primary combat
// log store. Re-inserts dedupe on entry ID, so a crash mid-archive is safe to
// replay. Returns the number of archived entries.
func (s *AdminService) ArchiveBufferedLogs(ctx context.Context) (int, error) {
	ids, err := s.repos.BufferedLog.PendingEncounterIDs(ctx)
	if err != nil {
		return 0, err
	}
	archived := 0
	for _, encounterID := range ids {
		err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
			buffered, err := tx.BufferedLog.Drain(ctx, encounterID)
			if err != nil {
				return err
			}
			entries := make([]*domain.CombatLog, 0, len(buffered))
			for _, b := range buffered {
				entries = append(entries, &domain.CombatLog{
					ID:          b.ID,
					EncounterID: b.EncounterID,
					ActorID:     b.ActorID,
					ActorName:   b.ActorName,
					Type:        b.Type,
					Message:     b.Message,
					Turn:        b.Turn,
					ItemID:      b.ItemID,
					Damage:      b.Damage,
					CreatedAt:   b.CreatedAt,
				})
			}
			archived += len(entries)
			return tx.CombatLog.CreateMany(ctx, entries)
		})
		if err != nil {
			log.Printf("ERROR [AdminService.ArchiveBufferedLogs] encounter %s: %v", encounterID, err)
		}
	}
	return archived, nil
}

// StartLogArchiver runs ArchiveBufferedLogs on an interval until the context
// is cancelled.
func (s *AdminService) StartLogArchiver(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ArchiveBufferedLogs(ctx); err != nil {
				log.Printf("ERROR [AdminService.StartLogArchiver] %v", err)
			}
		}
	}
}

func defaultFaction(f domain.Faction) domain.Faction {
	if f == "" {
		return domain.FactionAll
	}
	return f
}

func defaultRace(r domain.Race) domain.Race {
	if r == "" {
		return domain.RaceAll
	}
	return r
}
