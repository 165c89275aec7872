package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ItemType string

const (
	ItemTypeEquipment  ItemType = "equipment"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeSpecial    ItemType = "special"
	ItemTypeStatBoost  ItemType = "stat_boost"
)

type EffectKind string

const (
	EffectKindAttribute EffectKind = "attribute"
	EffectKindTriggered EffectKind = "triggered"
)

type AttrOp string

const (
	OpAdd      AttrOp = "add"
	OpMultiply AttrOp = "multiply"
	OpDice     AttrOp = "dice"
)

type EffectType string

const (
	EffectHeal        EffectType = "heal"
	EffectDamageEnemy EffectType = "damage_enemy"
	EffectAtkBuff     EffectType = "atk_buff"
	EffectDefBuff     EffectType = "def_buff"
	EffectHPCost      EffectType = "hp_cost"
)

// Effect is a tagged variant: Kind selects which field group applies.
// Attribute effects carry Attribute/Op, triggered effects carry
// Type/Probability/Duration. Value is shared.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Value int        `json:"value"`

	// attribute effects
	Attribute string `json:"attribute,omitempty"`
	Op        AttrOp `json:"op,omitempty"`

	// triggered effects
	Type        EffectType `json:"type,omitempty"`
	Probability int        `json:"probability,omitempty"` // 0-100
	Duration    int        `json:"duration,omitempty"`    // turns, 0 = instant
}

type Item struct {
	ID           uuid.UUID                     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                        `json:"name" gorm:"not null"`
	Description  string                        `json:"description"`
	Type         ItemType                      `json:"type" gorm:"not null"`
	Price        int                           `json:"price" gorm:"not null;default:0"`
	FactionLimit Faction                       `json:"factionLimit" gorm:"not null;default:'all'"`
	RaceLimit    Race                          `json:"raceLimit" gorm:"not null;default:'all'"`
	Published    bool                          `json:"published" gorm:"not null;default:false"`
	Effects      datatypes.JSONType[[]Effect]  `json:"effects" gorm:"type:jsonb"`
	CreatedAt    time.Time                     `json:"createdAt"`
	UpdatedAt    time.Time                     `json:"updatedAt"`
}

// AllowedFor checks the item's faction/race restriction against a user.
func (i *Item) AllowedFor(u *User) bool {
	if i.FactionLimit != FactionAll && i.FactionLimit != u.Faction {
		return false
	}
	if i.RaceLimit != RaceAll && i.RaceLimit != u.Race {
		return false
	}
	return true
}

// AtkBonusEffects returns the flat/dice attack bonuses honored during attack
// resolution. Other attribute/operator combinations are ignored for damage.
func (i *Item) AtkBonusEffects() []Effect {
	var out []Effect
	for _, e := range i.Effects.Data() {
		if e.Kind != EffectKindAttribute || e.Attribute != "atk" {
			continue
		}
		if e.Op == OpAdd || e.Op == OpDice {
			out = append(out, e)
		}
	}
	return out
}
