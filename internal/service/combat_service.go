package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEncounterNotFound = errors.New("encounter not found")
	ErrMonsterNotFound   = errors.New("monster not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrItemNotOwned      = errors.New("item not in inventory")
	ErrSkillNotFound     = errors.New("skill not found")
)

// LogFeed receives committed combat log entries for live delivery. A nil feed
// is allowed.
type LogFeed interface {
	BroadcastLog(encounterID uuid.UUID, entry *domain.CombatLog)
}

// CombatService orchestrates attack, item and skill actions against an
// encounter. Every mutating call runs as one transaction: a precondition
// failure aborts with no partial writes.
type CombatService struct {
	repos *repository.Repositories
	rng   domain.RandSource
	feed  LogFeed
}

func NewCombatService(repos *repository.Repositories, rng domain.RandSource, feed LogFeed) *CombatService {
	if rng == nil {
		rng = domain.DefaultRand
	}
	return &CombatService{repos: repos, rng: rng, feed: feed}
}

type MonsterInput struct {
	Name       string
	HP         int
	AtkFormula string
}

type CreateEncounterInput struct {
	Name      string
	Monsters  []MonsterInput
	CreatedBy uuid.UUID
}

func (s *CombatService) CreateEncounter(ctx context.Context, input CreateEncounterInput) (*domain.Encounter, error) {
	monsters := make([]domain.Monster, 0, len(input.Monsters))
	for _, m := range input.Monsters {
		monsters = append(monsters, domain.Monster{
			ID:         uuid.New().String(),
			Name:       m.Name,
			HP:         m.HP,
			OriginalHP: m.HP,
			AtkFormula: m.AtkFormula,
		})
	}

	encounter := &domain.Encounter{
		ID:           uuid.New(),
		Name:         input.Name,
		Status:       domain.EncounterPreparing,
		Monsters:     datatypes.NewJSONType(monsters),
		Participants: datatypes.NewJSONType(map[string]domain.Participant{}),
		CreatedBy:    input.CreatedBy,
	}

	if err := s.repos.Encounter.Create(ctx, encounter); err != nil {
		return nil, err
	}
	return encounter, nil
}

func (s *CombatService) GetEncounter(ctx context.Context, id uuid.UUID) (*domain.Encounter, error) {
	encounter, err := s.repos.Encounter.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEncounterNotFound
		}
		return nil, err
	}
	return encounter, nil
}

func (s *CombatService) ListEncounters(ctx context.Context, limit, offset int) ([]*domain.Encounter, error) {
	return s.repos.Encounter.List(ctx, limit, offset)
}

// SetStatus moves the encounter through its lifecycle. Backward transitions
// are rejected.
func (s *CombatService) SetStatus(ctx context.Context, id uuid.UUID, to domain.EncounterStatus) (*domain.Encounter, error) {
	var encounter *domain.Encounter
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		encounter, err = tx.Encounter.GetByID(ctx, id)
		if err != nil {
			return ErrEncounterNotFound
		}
		if !encounter.Status.CanTransition(to) {
			return domain.ErrInvalidTransition
		}
		encounter.Status = to
		return tx.Encounter.Update(ctx, encounter)
	})
	if err != nil {
		return nil, err
	}
	return encounter, nil
}

// JoinEncounter registers a default participant record seeded from the user's
// race stats. Joining twice is a no-op.
func (s *CombatService) JoinEncounter(ctx context.Context, encounterID, userID uuid.UUID) (*domain.Encounter, error) {
	var encounter *domain.Encounter
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		encounter, err = tx.Encounter.GetByID(ctx, encounterID)
		if err != nil {
			return ErrEncounterNotFound
		}
		if encounter.Status == domain.EncounterEnded || encounter.Status == domain.EncounterClosed {
			return domain.ErrEncounterNotActive
		}
		if encounter.Participant(user.ID.String()) == nil {
			encounter.SetParticipant(domain.NewParticipant(user))
			return tx.Encounter.Update(ctx, encounter)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encounter, nil
}

type AttackInput struct {
	EncounterID uuid.UUID
	UserID      uuid.UUID
	MonsterID   string
}

type AttackResult struct {
	Encounter       *domain.Encounter
	EffectiveAttack int
	CounterDamage   int
	Log             *domain.CombatLog
}

// Attack resolves one player attack. Damage equals the effective attack
// exactly; the monster's counter-damage is evaluated from its formula and
// reported, but hp bookkeeping for it stays with the client.
func (s *CombatService) Attack(ctx context.Context, input AttackInput) (*AttackResult, error) {
	var result *AttackResult
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, input.UserID)
		if err != nil {
			return ErrUserNotFound
		}
		encounter, err := tx.Encounter.GetByID(ctx, input.EncounterID)
		if err != nil {
			return ErrEncounterNotFound
		}
		if encounter.Status != domain.EncounterActive {
			return domain.ErrEncounterNotActive
		}
		monster := encounter.Monster(input.MonsterID)
		if monster == nil {
			return ErrMonsterNotFound
		}
		if monster.HP <= 0 {
			return domain.ErrTargetAlreadyDefeated
		}

		equipped, err := s.equippedItems(ctx, tx, user)
		if err != nil {
			return err
		}
		atk := domain.EffectiveAttack(domain.RaceBaseStats[user.Race].Atk, equipped, s.rng)
		if p := encounter.Participant(user.ID.String()); p != nil {
			for _, b := range p.Buffs {
				if b.Effect.Type == domain.EffectAtkBuff {
					atk += b.Effect.Value
				}
			}
		}

		m := *monster
		m.HP -= atk
		if m.HP < 0 {
			m.HP = 0
		}
		encounter.SetMonster(m)

		counter := domain.RollFormula(monster.AtkFormula, s.rng)

		entry := &domain.CombatLog{
			ID:          uuid.New(),
			EncounterID: encounter.ID,
			ActorID:     user.ID,
			ActorName:   user.DisplayName,
			Type:        domain.LogPlayerAttack,
			Message: fmt.Sprintf("%s hit %s for %d damage (%d HP left); %s struck back for %d",
				user.DisplayName, m.Name, atk, m.HP, m.Name, counter),
			Turn:      encounter.Turn,
			Damage:    atk,
			CreatedAt: time.Now(),
		}

		if err := tx.Encounter.Update(ctx, encounter); err != nil {
			return err
		}
		if err := s.appendLog(ctx, tx, entry); err != nil {
			return err
		}

		result = &AttackResult{
			Encounter:       encounter,
			EffectiveAttack: atk,
			CounterDamage:   counter,
			Log:             entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(result.Log)
	return result, nil
}

type UseItemInput struct {
	EncounterID     uuid.UUID
	UserID          uuid.UUID
	ItemID          uuid.UUID
	TargetMonsterID string
}

type ActionResult struct {
	Encounter   *domain.Encounter
	Fragments   []string
	TotalDamage int
	Log         *domain.CombatLog
}

// UseItem consumes one copy of an owned item and resolves its effects against
// the actor's participant record and the optional target monster.
func (s *CombatService) UseItem(ctx context.Context, input UseItemInput) (*ActionResult, error) {
	var result *ActionResult
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, input.UserID)
		if err != nil {
			return ErrUserNotFound
		}
		encounter, err := tx.Encounter.GetByID(ctx, input.EncounterID)
		if err != nil {
			return ErrEncounterNotFound
		}
		if encounter.Status != domain.EncounterActive {
			return domain.ErrEncounterNotActive
		}
		item, err := tx.Item.GetByID(ctx, input.ItemID)
		if err != nil {
			return ErrItemNotFound
		}
		if user.ItemCount(item.ID.String()) < 1 {
			return ErrItemNotOwned
		}

		participant := encounter.Participant(user.ID.String())
		if participant == nil {
			p := domain.NewParticipant(user)
			participant = &p
		}

		// Missing-target failures surface from the resolver at apply time; an
		// explicit ID that doesn't resolve fails here.
		var target *domain.Monster
		if input.TargetMonsterID != "" {
			target = encounter.Monster(input.TargetMonsterID)
			if target == nil {
				return domain.ErrTargetNotFound
			}
		}

		base := domain.RaceBaseStats[user.Race]
		snapshot := domain.AttributeSnapshot{
			HP:    participant.HP,
			MaxHP: participant.MaxHP,
			Atk:   base.Atk,
			Def:   base.Def,
		}
		outcome, err := domain.ResolveEffects(snapshot, item.Effects.Data(), target, s.rng, false)
		if err != nil {
			return err
		}

		participant.HP = outcome.Actor.HP
		participant.Buffs = append(participant.Buffs, outcome.Buffs...)
		encounter.SetParticipant(*participant)
		if target != nil {
			encounter.SetMonster(*target)
		}

		if !user.RemoveItem(item.ID.String(), 1) {
			return ErrItemNotOwned
		}
		user.BumpItemUse(item.ID.String())

		itemID := item.ID.String()
		entry := &domain.CombatLog{
			ID:          uuid.New(),
			EncounterID: encounter.ID,
			ActorID:     user.ID,
			ActorName:   user.DisplayName,
			Type:        domain.LogItemUsed,
			Message:     fmt.Sprintf("%s used %s: %s", user.DisplayName, item.Name, strings.Join(outcome.Fragments, "; ")),
			Turn:        encounter.Turn,
			ItemID:      &itemID,
			Damage:      outcome.TotalDamage,
			CreatedAt:   time.Now(),
		}

		if err := tx.Encounter.Update(ctx, encounter); err != nil {
			return err
		}
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if err := s.appendLog(ctx, tx, entry); err != nil {
			return err
		}
		if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: fmt.Sprintf("used item %s in %s", item.Name, encounter.Name),
			Change:      fmt.Sprintf("%s x-1", item.Name),
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		result = &ActionResult{
			Encounter:   encounter,
			Fragments:   outcome.Fragments,
			TotalDamage: outcome.TotalDamage,
			Log:         entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(result.Log)
	return result, nil
}

type UseSkillInput struct {
	EncounterID     uuid.UUID
	UserID          uuid.UUID
	SkillID         uuid.UUID
	TargetMonsterID string
}

// UseSkill applies a skill's effects (no probability draw) and starts its
// cooldown.
func (s *CombatService) UseSkill(ctx context.Context, input UseSkillInput) (*ActionResult, error) {
	var result *ActionResult
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, input.UserID)
		if err != nil {
			return ErrUserNotFound
		}
		encounter, err := tx.Encounter.GetByID(ctx, input.EncounterID)
		if err != nil {
			return ErrEncounterNotFound
		}
		if encounter.Status != domain.EncounterActive {
			return domain.ErrEncounterNotActive
		}
		participant := encounter.Participant(user.ID.String())
		if participant == nil {
			return domain.ErrNotParticipant
		}
		if participant.HP <= 0 {
			return domain.ErrParticipantDown
		}
		skill, err := tx.Skill.GetByID(ctx, input.SkillID)
		if err != nil {
			return ErrSkillNotFound
		}
		if participant.Cooldowns[skill.ID.String()] > 0 {
			return domain.ErrSkillOnCooldown
		}

		var target *domain.Monster
		if input.TargetMonsterID != "" {
			target = encounter.Monster(input.TargetMonsterID)
			if target == nil {
				return domain.ErrTargetNotFound
			}
		}

		base := domain.RaceBaseStats[user.Race]
		snapshot := domain.AttributeSnapshot{
			HP:    participant.HP,
			MaxHP: participant.MaxHP,
			Atk:   base.Atk,
			Def:   base.Def,
		}
		outcome, err := domain.ResolveEffects(snapshot, skill.Effects.Data(), target, s.rng, true)
		if err != nil {
			return err
		}

		participant.HP = outcome.Actor.HP
		participant.Buffs = append(participant.Buffs, outcome.Buffs...)
		if participant.Cooldowns == nil {
			participant.Cooldowns = make(map[string]int)
		}
		participant.Cooldowns[skill.ID.String()] = skill.Cooldown
		encounter.SetParticipant(*participant)
		if target != nil {
			encounter.SetMonster(*target)
		}

		entry := &domain.CombatLog{
			ID:          uuid.New(),
			EncounterID: encounter.ID,
			ActorID:     user.ID,
			ActorName:   user.DisplayName,
			Type:        domain.LogSkillUsed,
			Message:     fmt.Sprintf("%s used %s: %s", user.DisplayName, skill.Name, strings.Join(outcome.Fragments, "; ")),
			Turn:        encounter.Turn,
			Damage:      outcome.TotalDamage,
			CreatedAt:   time.Now(),
		}

		if err := tx.Encounter.Update(ctx, encounter); err != nil {
			return err
		}
		if err := s.appendLog(ctx, tx, entry); err != nil {
			return err
		}

		result = &ActionResult{
			Encounter:   encounter,
			Fragments:   outcome.Fragments,
			TotalDamage: outcome.TotalDamage,
			Log:         entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(result.Log)
	return result, nil
}

// TickTurn is the periodic external driver: it advances the turn counter and
// counts down buffs and cooldowns.
func (s *CombatService) TickTurn(ctx context.Context, encounterID uuid.UUID) (*domain.Encounter, error) {
	var encounter *domain.Encounter
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		encounter, err = tx.Encounter.GetByID(ctx, encounterID)
		if err != nil {
			return ErrEncounterNotFound
		}
		if encounter.Status != domain.EncounterActive {
			return domain.ErrEncounterNotActive
		}
		encounter.TickTurn()
		return tx.Encounter.Update(ctx, encounter)
	})
	if err != nil {
		return nil, err
	}
	return encounter, nil
}

func (s *CombatService) GetLogs(ctx context.Context, encounterID uuid.UUID) ([]*domain.CombatLog, error) {
	return s.repos.CombatLog.ListByEncounter(ctx, encounterID)
}

// equippedItems loads the equipment-type items from the user's inventory.
// Each owned item ID contributes once regardless of stack size.
func (s *CombatService) equippedItems(ctx context.Context, tx *repository.Repositories, user *domain.User) ([]*domain.Item, error) {
	var ids []uuid.UUID
	for itemID, count := range user.Inventory.Data() {
		if count < 1 {
			continue
		}
		if id, err := uuid.Parse(itemID); err == nil {
			ids = append(ids, id)
		}
	}
	items, err := tx.Item.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var equipped []*domain.Item
	for _, item := range items {
		if item.Type == domain.ItemTypeEquipment {
			equipped = append(equipped, item)
		}
	}
	return equipped, nil
}

// appendLog writes the primary combat log entry plus its mirrored buffer copy
// for the asynchronous archival job. Both share the entry ID so archival can
// dedupe.
func (s *CombatService) appendLog(ctx context.Context, tx *repository.Repositories, entry *domain.CombatLog) error {
	if err := tx.CombatLog.Create(ctx, entry); err != nil {
		return err
	}
	return tx.BufferedLog.Push(ctx, &domain.BufferedCombatLog{
		ID:          entry.ID,
		EncounterID: entry.EncounterID,
		ActorID:     entry.ActorID,
		ActorName:   entry.ActorName,
		Type:        entry.Type,
		Message:     entry.Message,
		Turn:        entry.Turn,
		ItemID:      entry.ItemID,
		Damage:      entry.Damage,
		CreatedAt:   entry.CreatedAt,
	})
}

func (s *CombatService) broadcast(entry *domain.CombatLog) {
	if s.feed != nil && entry != nil {
		s.feed.BroadcastLog(entry.EncounterID, entry)
	}
}
