package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
)

var ErrTitleNotFound = errors.New("title not found")

// TitleService evaluates the declarative title catalog against a user's
// cumulative counters.
type TitleService struct {
	repos *repository.Repositories
}

func NewTitleService(repos *repository.Repositories) *TitleService {
	return &TitleService{repos: repos}
}

func (s *TitleService) List(ctx context.Context) ([]*domain.Title, error) {
	return s.repos.Title.List(ctx)
}

// ListVisible returns the catalog as one user sees it: hidden titles are
// included only when the user already owns them.
func (s *TitleService) ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Title, error) {
	titles, err := s.repos.Title.List(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	visible := make([]*domain.Title, 0, len(titles))
	for _, t := range titles {
		if t.Hidden && !user.HasTitle(t.ID.String()) {
			continue
		}
		visible = append(visible, t)
	}
	return visible, nil
}

// Evaluate returns the titles the user newly qualifies for and persists them.
// Safe to re-run: owned titles are filtered out before evaluation.
func (s *TitleService) Evaluate(ctx context.Context, userID uuid.UUID, battleID *uuid.UUID) ([]*domain.Title, error) {
	var awarded []*domain.Title
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		awarded, err = evaluateTitles(ctx, tx, user, battleID)
		if err != nil {
			return err
		}
		if len(awarded) == 0 {
			return nil
		}
		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

// GrantManual awards a manual title by explicit admin action, at most once.
func (s *TitleService) GrantManual(ctx context.Context, userID, titleID uuid.UUID) error {
	return s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		title, err := tx.Title.GetByID(ctx, titleID)
		if err != nil {
			return ErrTitleNotFound
		}
		if !user.AddTitle(title.ID.String()) {
			return nil
		}
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		return tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: fmt.Sprintf("awarded title %q", title.Name),
			Change:      "title +1",
			CreatedAt:   time.Now(),
		})
	})
}

// evaluateTitles runs the trigger catalog against the user's current counters
// and mutates the user's title set in memory. Candidates are non-manual,
// unowned titles with a trigger; evaluation order does not affect the result.
// Callers persist the user and write activity logs.
func evaluateTitles(ctx context.Context, tx *repository.Repositories, user *domain.User, battleID *uuid.UUID) ([]*domain.Title, error) {
	titles, err := tx.Title.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := user.Stats()
	triggerCtx := domain.TriggerContext{}
	if battleID != nil {
		id := *battleID
		triggerCtx.ItemDamageCount = func(itemID string, threshold int) int {
			count, err := tx.CombatLog.CountItemDamage(ctx, id, itemID, threshold)
			if err != nil {
				log.Printf("ERROR [TitleService.Evaluate] item damage count failed: %v", err)
				return 0
			}
			return count
		}
	}

	var awarded []*domain.Title
	for _, title := range titles {
		if title.Manual || user.HasTitle(title.ID.String()) {
			continue
		}
		trigger := title.Trigger.Data()
		if trigger == nil {
			continue
		}
		if domain.EvaluateTrigger(trigger, stats, triggerCtx) {
			user.AddTitle(title.ID.String())
			awarded = append(awarded, title)
		}
	}
	return awarded, nil
}
