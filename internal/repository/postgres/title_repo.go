package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
)

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *titleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *domain.Title) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Title, error) {
	var title domain.Title
	err := r.db.WithContext(ctx).First(&title, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) Update(ctx context.Context, title *domain.Title) error {
	return r.db.WithContext(ctx).Save(title).Error
}

func (r *titleRepository) List(ctx context.Context) ([]*domain.Title, error) {
	var titles []*domain.Title
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}
