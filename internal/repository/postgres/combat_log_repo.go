package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type combatLogRepository struct {
	db *gorm.DB
}

func NewCombatLogRepository(db *gorm.DB) *combatLogRepository {
	return &combatLogRepository{db: db}
}

func (r *combatLogRepository) Create(ctx context.Context, entry *domain.CombatLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateMany inserts a batch, skipping entries whose ID already exists so the
// buffer archival job can replay safely.
func (r *combatLogRepository) CreateMany(ctx context.Context, entries []*domain.CombatLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entries).Error
}

func (r *combatLogRepository) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]*domain.CombatLog, error) {
	var entries []*domain.CombatLog
	err := r.db.WithContext(ctx).
		Where("encounter_id = ?", encounterID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *combatLogRepository) CountItemDamage(ctx context.Context, encounterID uuid.UUID, itemID string, threshold int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CombatLog{}).
		Where("encounter_id = ? AND type = ? AND item_id = ? AND damage >= ?",
			encounterID, domain.LogItemUsed, itemID, threshold).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *combatLogRepository) SumAttackDamageByActor(ctx context.Context, encounterID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		ActorID uuid.UUID
		Total   int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.CombatLog{}).
		Select("actor_id, SUM(damage) AS total").
		Where("encounter_id = ? AND type = ?", encounterID, domain.LogPlayerAttack).
		Group("actor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		totals[row.ActorID] = row.Total
	}
	return totals, nil
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *activityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLog, error) {
	var entries []*domain.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
