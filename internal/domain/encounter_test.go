package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/datatypes"
)

func TestEncounterStatusCanTransition(t *testing.T) {
	tests := []struct {
		from domain.EncounterStatus
		to   domain.EncounterStatus
		want bool
	}{
		{domain.EncounterPreparing, domain.EncounterActive, true},
		{domain.EncounterPreparing, domain.EncounterClosed, true},
		{domain.EncounterActive, domain.EncounterEnded, true},
		{domain.EncounterEnded, domain.EncounterClosed, true},
		{domain.EncounterActive, domain.EncounterPreparing, false},
		{domain.EncounterClosed, domain.EncounterActive, false},
		{domain.EncounterEnded, domain.EncounterEnded, false},
		{domain.EncounterStatus("bogus"), domain.EncounterActive, false},
		{domain.EncounterActive, domain.EncounterStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestNewParticipantUsesRaceStats(t *testing.T) {
	user := &domain.User{
		ID:          uuid.New(),
		DisplayName: "kagerou",
		Faction:     domain.FactionYelu,
		Race:        domain.RaceOni,
	}

	p := domain.NewParticipant(user)
	assert.Equal(t, user.ID.String(), p.UserID)
	assert.Equal(t, "kagerou", p.RoleName)
	assert.Equal(t, domain.RaceBaseStats[domain.RaceOni].HP, p.HP)
	assert.Equal(t, p.HP, p.MaxHP)
}

func TestEncounterTickTurn(t *testing.T) {
	encounter := &domain.Encounter{}
	encounter.SetParticipant(domain.Participant{
		UserID: "u1",
		HP:     50,
		MaxHP:  100,
		Buffs: []domain.ActiveBuff{
			{Effect: domain.Effect{Type: domain.EffectAtkBuff, Value: 5}, TurnsLeft: 2},
			{Effect: domain.Effect{Type: domain.EffectDefBuff, Value: 3}, TurnsLeft: 1},
		},
		Cooldowns: map[string]int{"fireball": 2, "ready": 0},
	})

	encounter.TickTurn()

	assert.Equal(t, 1, encounter.Turn)
	p := encounter.Participant("u1")
	require.NotNil(t, p)
	// the one-turn buff expired, the other lost a turn
	require.Len(t, p.Buffs, 1)
	assert.Equal(t, domain.EffectAtkBuff, p.Buffs[0].Effect.Type)
	assert.Equal(t, 1, p.Buffs[0].TurnsLeft)
	assert.Equal(t, 1, p.Cooldowns["fireball"])
	assert.Equal(t, 0, p.Cooldowns["ready"])
}

func TestEncounterMonsterAccessors(t *testing.T) {
	encounter := &domain.Encounter{
		Monsters: datatypes.NewJSONType([]domain.Monster{
			{ID: "m1", Name: "Husk", HP: 40, OriginalHP: 40},
		}),
	}

	m := encounter.Monster("m1")
	require.NotNil(t, m)
	m.HP = 10
	encounter.SetMonster(*m)

	assert.Equal(t, 10, encounter.Monster("m1").HP)
	assert.Nil(t, encounter.Monster("missing"))
}
