package domain

import (
	"time"

	"github.com/google/uuid"
)

type CombatLogType string

const (
	LogPlayerAttack CombatLogType = "player_attack"
	LogItemUsed     CombatLogType = "item_used"
	LogSkillUsed    CombatLogType = "skill_used"
	LogSystem       CombatLogType = "system"
)

// CombatLog is an append-only per-encounter record. The actor's user ID is
// stored directly at write time; ActorName is display-only.
type CombatLog struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EncounterID uuid.UUID     `json:"encounterId" gorm:"type:uuid;index;not null"`
	ActorID     uuid.UUID     `json:"actorId" gorm:"type:uuid;index"`
	ActorName   string        `json:"actorName"`
	Type        CombatLogType `json:"type" gorm:"not null"`
	Message     string        `json:"message" gorm:"not null"`
	Turn        int           `json:"turn"`
	ItemID      *string       `json:"itemId"`
	Damage      int           `json:"damage"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// BufferedCombatLog stages combat logs in a fast-append table before a batch
// job archives them into CombatLog. The two may be transiently inconsistent;
// the buffer is not the system of record.
type BufferedCombatLog struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EncounterID uuid.UUID     `json:"encounterId" gorm:"type:uuid;index;not null"`
	ActorID     uuid.UUID     `json:"actorId" gorm:"type:uuid"`
	ActorName   string        `json:"actorName"`
	Type        CombatLogType `json:"type" gorm:"not null"`
	Message     string        `json:"message" gorm:"not null"`
	Turn        int           `json:"turn"`
	ItemID      *string       `json:"itemId"`
	Damage      int           `json:"damage"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ActivityLog is an append-only per-user record of resource changes.
type ActivityLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Description string    `json:"description" gorm:"not null"`
	Change      string    `json:"change"`
	CreatedAt   time.Time `json:"createdAt"`
}
