package postgres

import (
	"context"

	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
)

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *seasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *domain.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) GetCurrent(ctx context.Context) (*domain.Season, error) {
	var season domain.Season
	err := r.db.WithContext(ctx).First(&season, "status = ?", domain.SeasonCurrent).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) Update(ctx context.Context, season *domain.Season) error {
	return r.db.WithContext(ctx).Save(season).Error
}

func (r *seasonRepository) ListArchived(ctx context.Context) ([]*domain.Season, error) {
	var seasons []*domain.Season
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.SeasonArchived).
		Order("archived_at DESC").
		Find(&seasons).Error
	if err != nil {
		return nil, err
	}
	return seasons, nil
}
