package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Skill is a cooldown-gated action. Its effects use the triggered shape but
// carry no probability: they always apply.
type Skill struct {
	ID           uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                       `json:"name" gorm:"not null"`
	Description  string                       `json:"description"`
	Cooldown     int                          `json:"cooldown" gorm:"not null;default:0"` // turns
	FactionLimit Faction                      `json:"factionLimit" gorm:"not null;default:'all'"`
	RaceLimit    Race                         `json:"raceLimit" gorm:"not null;default:'all'"`
	Effects      datatypes.JSONType[[]Effect] `json:"effects" gorm:"type:jsonb"`
	CreatedAt    time.Time                    `json:"createdAt"`
	UpdatedAt    time.Time                    `json:"updatedAt"`
}

func (s *Skill) AllowedFor(u *User) bool {
	if s.FactionLimit != FactionAll && s.FactionLimit != u.Faction {
		return false
	}
	if s.RaceLimit != RaceAll && s.RaceLimit != u.Race {
		return false
	}
	return true
}
