package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EncounterStatus string

const (
	EncounterPreparing EncounterStatus = "preparing"
	EncounterActive    EncounterStatus = "active"
	EncounterEnded     EncounterStatus = "ended"
	EncounterClosed    EncounterStatus = "closed"
)

// statusRank orders the lifecycle; transitions only move forward.
var statusRank = map[EncounterStatus]int{
	EncounterPreparing: 0,
	EncounterActive:    1,
	EncounterEnded:     2,
	EncounterClosed:    3,
}

// CanTransition reports whether moving from one status to another respects
// the monotonic lifecycle.
func (s EncounterStatus) CanTransition(to EncounterStatus) bool {
	from, ok := statusRank[s]
	next, ok2 := statusRank[to]
	return ok && ok2 && next > from
}

// Monster is embedded in its encounter and not independently addressable.
type Monster struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HP         int    `json:"hp"`
	OriginalHP int    `json:"originalHp"`
	AtkFormula string `json:"atkFormula"` // e.g. "20+1d10"
}

// ActiveBuff is an effect with a remaining-turn countdown, decremented once
// per turn tick.
type ActiveBuff struct {
	Effect    Effect `json:"effect"`
	TurnsLeft int    `json:"turnsLeft"`
}

// Participant is a user's combat state within one encounter.
type Participant struct {
	UserID    string         `json:"userId"`
	RoleName  string         `json:"roleName"`
	Faction   Faction        `json:"faction"`
	HP        int            `json:"hp"`
	MaxHP     int            `json:"maxHp"`
	Buffs     []ActiveBuff   `json:"buffs,omitempty"`
	Cooldowns map[string]int `json:"cooldowns,omitempty"` // skill ID -> turns left
}

type Encounter struct {
	ID           uuid.UUID                               `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string                                  `json:"name" gorm:"not null"`
	Status       EncounterStatus                         `json:"status" gorm:"not null;default:'preparing'"`
	Monsters     datatypes.JSONType[[]Monster]           `json:"monsters" gorm:"type:jsonb"`
	Participants datatypes.JSONType[map[string]Participant] `json:"participants" gorm:"type:jsonb"`
	Turn         int                                     `json:"turn" gorm:"not null;default:0"`
	CreatedBy    uuid.UUID                               `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt    time.Time                               `json:"createdAt"`
	UpdatedAt    time.Time                               `json:"updatedAt"`
}

// Monster returns the monster with the given ID, or nil.
func (e *Encounter) Monster(id string) *Monster {
	monsters := e.Monsters.Data()
	for i := range monsters {
		if monsters[i].ID == id {
			return &monsters[i]
		}
	}
	return nil
}

// SetMonster writes back a mutated monster snapshot.
func (e *Encounter) SetMonster(m Monster) {
	monsters := e.Monsters.Data()
	for i := range monsters {
		if monsters[i].ID == m.ID {
			monsters[i] = m
			e.Monsters = datatypes.NewJSONType(monsters)
			return
		}
	}
}

// Participant returns the participant record for a user, or nil.
func (e *Encounter) Participant(userID string) *Participant {
	parts := e.Participants.Data()
	if p, ok := parts[userID]; ok {
		return &p
	}
	return nil
}

// SetParticipant writes back a mutated participant snapshot.
func (e *Encounter) SetParticipant(p Participant) {
	parts := e.Participants.Data()
	if parts == nil {
		parts = make(map[string]Participant)
	}
	parts[p.UserID] = p
	e.Participants = datatypes.NewJSONType(parts)
}

// NewParticipant seeds a default combat record from a user's race stats.
func NewParticipant(u *User) Participant {
	base := RaceBaseStats[u.Race]
	return Participant{
		UserID:   u.ID.String(),
		RoleName: u.DisplayName,
		Faction:  u.Faction,
		HP:       base.HP,
		MaxHP:    base.HP,
	}
}

// TickTurn advances the turn counter, decrements buff durations and skill
// cooldowns, and drops expired buffs.
func (e *Encounter) TickTurn() {
	e.Turn++
	parts := e.Participants.Data()
	for id, p := range parts {
		var kept []ActiveBuff
		for _, b := range p.Buffs {
			b.TurnsLeft--
			if b.TurnsLeft > 0 {
				kept = append(kept, b)
			}
		}
		p.Buffs = kept
		for skill, left := range p.Cooldowns {
			if left > 0 {
				p.Cooldowns[skill] = left - 1
			}
		}
		parts[id] = p
	}
	e.Participants = datatypes.NewJSONType(parts)
}
