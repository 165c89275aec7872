package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TriggerKind string

const (
	TriggerHonorPoints         TriggerKind = "honor_points"
	TriggerCurrency            TriggerKind = "currency"
	TriggerTasksSubmitted      TriggerKind = "tasks_submitted"
	TriggerBattlesParticipated TriggerKind = "battles_participated"
	TriggerBattlesHPZero       TriggerKind = "battles_hp_zero"
	TriggerItemUsed            TriggerKind = "item_used"
	TriggerItemDamage          TriggerKind = "item_damage"
)

// Trigger is a declarative award condition. Kind selects the counter the
// threshold Value compares against; item triggers additionally name an item,
// and item_damage carries a per-hit damage threshold.
type Trigger struct {
	Kind            TriggerKind `json:"kind"`
	Value           int         `json:"value"`
	ItemID          string      `json:"itemId,omitempty"`
	DamageThreshold int         `json:"damageThreshold,omitempty"`
}

type Title struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string                       `json:"name" gorm:"not null"`
	Description string                       `json:"description"`
	Hidden      bool                         `json:"hidden" gorm:"not null;default:false"`
	Manual      bool                         `json:"manual" gorm:"not null;default:false"`
	Trigger     datatypes.JSONType[*Trigger] `json:"trigger" gorm:"type:jsonb"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

// UserStats is the cumulative counter snapshot triggers evaluate against.
type UserStats struct {
	HonorPoints         int
	Currency            int
	TasksSubmitted      int
	BattlesParticipated int
	BattlesHPZero       int
	ItemUseCounts       map[string]int
}

// TriggerContext supplies per-battle inputs a pure counter snapshot cannot:
// ItemDamageCount must be the number of item_used combat log entries for the
// context battle matching the trigger's item with damage at or above its
// threshold.
type TriggerContext struct {
	ItemDamageCount func(itemID string, damageThreshold int) int
}

// EvaluateTrigger decides whether a trigger's condition holds. Each kind is
// matched explicitly; an unknown kind never qualifies.
func EvaluateTrigger(t *Trigger, stats UserStats, ctx TriggerContext) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TriggerHonorPoints:
		return stats.HonorPoints >= t.Value
	case TriggerCurrency:
		return stats.Currency >= t.Value
	case TriggerTasksSubmitted:
		return stats.TasksSubmitted >= t.Value
	case TriggerBattlesParticipated:
		return stats.BattlesParticipated >= t.Value
	case TriggerBattlesHPZero:
		return stats.BattlesHPZero >= t.Value
	case TriggerItemUsed:
		return stats.ItemUseCounts[t.ItemID] >= t.Value
	case TriggerItemDamage:
		if ctx.ItemDamageCount == nil {
			return false
		}
		return ctx.ItemDamageCount(t.ItemID, t.DamageThreshold) >= t.Value
	default:
		return false
	}
}
