package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
)

type encounterRepository struct {
	db *gorm.DB
}

func NewEncounterRepository(db *gorm.DB) *encounterRepository {
	return &encounterRepository{db: db}
}

func (r *encounterRepository) Create(ctx context.Context, encounter *domain.Encounter) error {
	return r.db.WithContext(ctx).Create(encounter).Error
}

func (r *encounterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Encounter, error) {
	var encounter domain.Encounter
	err := r.db.WithContext(ctx).First(&encounter, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &encounter, nil
}

func (r *encounterRepository) Update(ctx context.Context, encounter *domain.Encounter) error {
	return r.db.WithContext(ctx).Save(encounter).Error
}

func (r *encounterRepository) List(ctx context.Context, limit, offset int) ([]*domain.Encounter, error) {
	var encounters []*domain.Encounter
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&encounters).Error
	if err != nil {
		return nil, err
	}
	return encounters, nil
}
