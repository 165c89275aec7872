package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/cache"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
)

const rosterCacheKey = "approved-roster"

// RewardFilter selects users from the approved pool. All set fields combine
// with logical AND; a comparison operator with a zero value is no constraint.
type RewardFilter struct {
	Faction domain.Faction
	Race    domain.Race

	HonorOp    string // ">" or "<", strict
	HonorValue int

	CurrencyOp    string
	CurrencyValue int

	TaskCountOp    string
	TaskCountValue int

	// Battle-damage pool: when both are set, the filter selects users whose
	// summed player_attack damage in the battle exceeds the threshold instead
	// of consulting the approved pool.
	BattleID              *uuid.UUID
	BattleDamageThreshold int
}

type RewardBundle struct {
	Honor    int
	Currency int
	ItemID   *uuid.UUID
	TitleID  *uuid.UUID
}

type DistributeInput struct {
	// Explicit target IDs win over the filter when non-empty.
	UserIDs []uuid.UUID
	Filter  *RewardFilter
	Rewards RewardBundle

	// EndOfBattleID marks this as an end-of-battle distribution: battle
	// participation and hp-zero counters are recorded against it.
	EndOfBattleID *uuid.UUID

	Description string
}

type DistributeResult struct {
	Processed int
	Users     []string
}

// RewardService applies reward bundles across a user set, one independent
// transaction per user so a single failure never aborts the batch.
type RewardService struct {
	repos  *repository.Repositories
	roster *cache.TTLCache[[]*domain.User]
}

func NewRewardService(repos *repository.Repositories, rosterTTL time.Duration) *RewardService {
	return &RewardService{
		repos:  repos,
		roster: cache.NewTTL[[]*domain.User](rosterTTL),
	}
}

func (s *RewardService) Distribute(ctx context.Context, input DistributeInput) (*DistributeResult, error) {
	targets, err := s.resolveTargets(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &DistributeResult{}
	for _, userID := range targets {
		if err := s.applyToUser(ctx, userID, input); err != nil {
			log.Printf("ERROR [RewardService.Distribute] user %s: %v", userID, err)
			continue
		}
		result.Processed++
		result.Users = append(result.Users, userID.String())
	}
	return result, nil
}

func (s *RewardService) resolveTargets(ctx context.Context, input DistributeInput) ([]uuid.UUID, error) {
	if len(input.UserIDs) > 0 {
		return input.UserIDs, nil
	}
	f := input.Filter
	if f == nil {
		return nil, nil
	}

	if f.BattleID != nil && f.BattleDamageThreshold > 0 {
		totals, err := s.repos.CombatLog.SumAttackDamageByActor(ctx, *f.BattleID)
		if err != nil {
			return nil, err
		}
		var ids []uuid.UUID
		for actorID, total := range totals {
			if total > f.BattleDamageThreshold {
				ids = append(ids, actorID)
			}
		}
		return ids, nil
	}

	pool, err := s.approvedRoster(ctx)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, u := range pool {
		if matchesFilter(u, f) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// approvedRoster serves the approved-user pool through the TTL cache so
// repeated distributions within the window skip the full scan.
func (s *RewardService) approvedRoster(ctx context.Context) ([]*domain.User, error) {
	if pool, ok := s.roster.Get(rosterCacheKey); ok {
		return pool, nil
	}
	pool, err := s.repos.User.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	s.roster.Set(rosterCacheKey, pool)
	return pool, nil
}

func matchesFilter(u *domain.User, f *RewardFilter) bool {
	if f.Faction != "" && f.Faction != domain.FactionAll && u.Faction != f.Faction {
		return false
	}
	if f.Race != "" && f.Race != domain.RaceAll && u.Race != f.Race {
		return false
	}
	if !compare(u.HonorPoints, f.HonorOp, f.HonorValue) {
		return false
	}
	if !compare(u.Currency, f.CurrencyOp, f.CurrencyValue) {
		return false
	}
	if !compare(u.TasksSubmitted, f.TaskCountOp, f.TaskCountValue) {
		return false
	}
	return true
}

// compare applies a strict comparison; an empty operator or zero value means
// no constraint.
func compare(actual int, op string, value int) bool {
	if op == "" || value == 0 {
		return true
	}
	switch op {
	case ">":
		return actual > value
	case "<":
		return actual < value
	default:
		return true
	}
}

func (s *RewardService) applyToUser(ctx context.Context, userID uuid.UUID, input DistributeInput) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}

		var changes []string
		if input.Rewards.Honor != 0 {
			user.HonorPoints += input.Rewards.Honor
			changes = append(changes, fmt.Sprintf("honor %+d", input.Rewards.Honor))
		}
		if input.Rewards.Currency != 0 {
			if user.Currency+input.Rewards.Currency < 0 {
				return domain.ErrInsufficientCurrency
			}
			user.Currency += input.Rewards.Currency
			changes = append(changes, fmt.Sprintf("currency %+d", input.Rewards.Currency))
		}
		if input.Rewards.ItemID != nil {
			// Mirrors array-union semantics: a granted item appears at most
			// once; purchases and crafting manage stack counts.
			id := input.Rewards.ItemID.String()
			if user.ItemCount(id) == 0 {
				user.AddItem(id, 1)
				changes = append(changes, "item +1")
			}
		}
		if input.Rewards.TitleID != nil {
			if user.AddTitle(input.Rewards.TitleID.String()) {
				changes = append(changes, "title +1")
			}
		}

		if input.EndOfBattleID != nil {
			battleID := *input.EndOfBattleID
			user.RecordBattle(battleID.String())
			if encounter, err := tx.Encounter.GetByID(ctx, battleID); err == nil {
				if p := encounter.Participant(user.ID.String()); p != nil && p.HP <= 0 {
					user.HPZeroCount++
				}
			}
		}

		// Honor gains feed the faction's seasonal score.
		if input.Rewards.Honor > 0 {
			if season, err := tx.Season.GetCurrent(ctx); err == nil {
				season.AddScore(user.Faction, input.Rewards.Honor, user.ID.String())
				if err := tx.Season.Update(ctx, season); err != nil {
					return err
				}
			}
		}

		if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: nonEmpty(input.Description, "reward distribution"),
			Change:      strings.Join(changes, ", "),
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		awarded, err := evaluateTitles(ctx, tx, user, input.EndOfBattleID)
		if err != nil {
			return err
		}
		for _, title := range awarded {
			if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
				ID:          uuid.New(),
				UserID:      user.ID,
				Description: fmt.Sprintf("earned title %q", title.Name),
				Change:      "title +1",
				CreatedAt:   time.Now(),
			}); err != nil {
				return err
			}
		}

		return tx.User.Update(ctx, user)
	})
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
