package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/repository"
)

var (
	ErrItemNotPublished   = errors.New("item is not available")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRecipeNotPublished = errors.New("recipe is not available")
	ErrMissingIngredients = errors.New("missing ingredients")
)

// ItemService covers the player-facing shop and crafting operations.
type ItemService struct {
	repos *repository.Repositories
}

func NewItemService(repos *repository.Repositories) *ItemService {
	return &ItemService{repos: repos}
}

func (s *ItemService) ListPublished(ctx context.Context) ([]*domain.Item, error) {
	return s.repos.Item.ListPublished(ctx)
}

func (s *ItemService) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return s.repos.Recipe.ListPublished(ctx)
}

// Buy purchases one copy of a published item. Currency can never go
// negative: the whole transaction fails before any write.
func (s *ItemService) Buy(ctx context.Context, userID, itemID uuid.UUID) (*domain.User, error) {
	var user *domain.User
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		user, err = tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		item, err := tx.Item.GetByID(ctx, itemID)
		if err != nil {
			return ErrItemNotFound
		}
		if !item.Published {
			return ErrItemNotPublished
		}
		if item.FactionLimit != domain.FactionAll && item.FactionLimit != user.Faction {
			return domain.ErrFactionRestricted
		}
		if item.RaceLimit != domain.RaceAll && item.RaceLimit != user.Race {
			return domain.ErrRaceRestricted
		}
		if user.Currency < item.Price {
			return domain.ErrInsufficientCurrency
		}

		user.Currency -= item.Price
		user.AddItem(item.ID.String(), 1)

		if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: fmt.Sprintf("purchased %s", item.Name),
			Change:      fmt.Sprintf("currency -%d, %s +1", item.Price, item.Name),
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		// A purchase can satisfy item-ownership or currency triggers.
		awarded, err := evaluateTitles(ctx, tx, user, nil)
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
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Craft consumes the recipe's exact ingredient counts and grants the output
// item.
func (s *ItemService) Craft(ctx context.Context, userID, recipeID uuid.UUID) (*domain.User, error) {
	var user *domain.User
	err := s.repos.Tx.WithTx(ctx, func(tx *repository.Repositories) error {
		var err error
		user, err = tx.User.GetByID(ctx, userID)
		if err != nil {
			return ErrUserNotFound
		}
		recipe, err := tx.Recipe.GetByID(ctx, recipeID)
		if err != nil {
			return ErrRecipeNotFound
		}
		if !recipe.Published {
			return ErrRecipeNotPublished
		}

		ingredients := recipe.Ingredients.Data()
		for itemID, count := range ingredients {
			if user.ItemCount(itemID) < count {
				return ErrMissingIngredients
			}
		}
		for itemID, count := range ingredients {
			if !user.RemoveItem(itemID, count) {
				return ErrMissingIngredients
			}
		}
		user.AddItem(recipe.OutputItemID.String(), 1)

		if err := tx.ActivityLog.Create(ctx, &domain.ActivityLog{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: fmt.Sprintf("crafted %s", recipe.Name),
			Change:      fmt.Sprintf("recipe %s consumed", recipe.Name),
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		return tx.User.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
