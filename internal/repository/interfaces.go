package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListApproved(ctx context.Context) ([]*domain.User, error)
	ListPending(ctx context.Context) ([]*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	ListPublished(ctx context.Context) ([]*domain.Item, error)
}

type SkillRepository interface {
	Create(ctx context.Context, skill *domain.Skill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Skill, error)
	Update(ctx context.Context, skill *domain.Skill) error
	List(ctx context.Context) ([]*domain.Skill, error)
}

type EncounterRepository interface {
	Create(ctx context.Context, encounter *domain.Encounter) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Encounter, error)
	Update(ctx context.Context, encounter *domain.Encounter) error
	List(ctx context.Context, limit, offset int) ([]*domain.Encounter, error)
}

type TitleRepository interface {
	Create(ctx context.Context, title *domain.Title) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Title, error)
	Update(ctx context.Context, title *domain.Title) error
	List(ctx context.Context) ([]*domain.Title, error)
}

type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) error
	GetCurrent(ctx context.Context) (*domain.Season, error)
	Update(ctx context.Context, season *domain.Season) error
	ListArchived(ctx context.Context) ([]*domain.Season, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	ListPublished(ctx context.Context) ([]*domain.Task, error)
}

type TaskSubmissionRepository interface {
	Create(ctx context.Context, submission *domain.TaskSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskSubmission, error)
	GetByTaskAndUser(ctx context.Context, taskID, userID uuid.UUID) ([]*domain.TaskSubmission, error)
	Update(ctx context.Context, submission *domain.TaskSubmission) error
	ListPending(ctx context.Context) ([]*domain.TaskSubmission, error)
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	ListPublished(ctx context.Context) ([]*domain.Recipe, error)
}

type CombatLogRepository interface {
	Create(ctx context.Context, entry *domain.CombatLog) error
	CreateMany(ctx context.Context, entries []*domain.CombatLog) error
	ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]*domain.CombatLog, error)
	// CountItemDamage counts item_used entries for an encounter matching the
	// item with damage at or above the threshold.
	CountItemDamage(ctx context.Context, encounterID uuid.UUID, itemID string, threshold int) (int, error)
	// SumAttackDamageByActor totals player_attack damage per acting user.
	SumAttackDamageByActor(ctx context.Context, encounterID uuid.UUID) (map[uuid.UUID]int, error)
}

// BufferedCombatLogRepository is the fast-append staging store. Drain reads
// and deletes every buffered entry for an encounter in one step.
type BufferedCombatLogRepository interface {
	Push(ctx context.Context, entry *domain.BufferedCombatLog) error
	Drain(ctx context.Context, encounterID uuid.UUID) ([]*domain.BufferedCombatLog, error)
	PendingEncounterIDs(ctx context.Context) ([]uuid.UUID, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error)
}

// TxManager runs a function against a transaction-scoped repository set. The
// callback's writes commit together or not at all.
type TxManager interface {
	WithTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User           UserRepository
	Session        SessionRepository
	Item           ItemRepository
	Skill          SkillRepository
	Encounter      EncounterRepository
	Title          TitleRepository
	Season         SeasonRepository
	Task           TaskRepository
	TaskSubmission TaskSubmissionRepository
	Recipe         RecipeRepository
	CombatLog      CombatLogRepository
	BufferedLog    BufferedCombatLogRepository
	ActivityLog    ActivityLogRepository
	Tx             TxManager
}
