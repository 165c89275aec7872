package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
)

// bufferedCombatLogRepository is the fast-append staging store for combat
// logs written mid-battle. Entries sit here until the archive job drains
// them into the combat_logs table.
type bufferedCombatLogRepository struct {
	db *gorm.DB
}

func NewBufferedCombatLogRepository(db *gorm.DB) *bufferedCombatLogRepository {
	return &bufferedCombatLogRepository{db: db}
}

func (r *bufferedCombatLogRepository) Push(ctx context.Context, entry *domain.BufferedCombatLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Drain reads and deletes all buffered entries for an encounter in one
// transaction.
func (r *bufferedCombatLogRepository) Drain(ctx context.Context, encounterID uuid.UUID) ([]*domain.BufferedCombatLog, error) {
	var entries []*domain.BufferedCombatLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("encounter_id = ?", encounterID).
			Order("created_at ASC").
			Find(&entries).Error; err != nil {
			return err
		}
		return tx.Where("encounter_id = ?", encounterID).
			Delete(&domain.BufferedCombatLog{}).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *bufferedCombatLogRepository) PendingEncounterIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.BufferedCombatLog{}).
		Distinct("encounter_id").
		Pluck("encounter_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
