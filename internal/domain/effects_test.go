package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"gorm.io/datatypes"
)

func TestResolveEffectsProbability(t *testing.T) {
	effects := []domain.Effect{
		{
			Kind:        domain.EffectKindTriggered,
			Type:        domain.EffectHeal,
			Value:       10,
			Probability: 50,
		},
	}
	actor := domain.AttributeSnapshot{HP: 50, MaxHP: 100}

	t.Run("draw under probability applies", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, effects, nil, fixedRand{value: 49}, false)
		require.NoError(t, err)
		assert.Equal(t, 60, out.Actor.HP)
	})

	t.Run("draw at probability skips", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, effects, nil, fixedRand{value: 50}, false)
		require.NoError(t, err)
		assert.Equal(t, 50, out.Actor.HP)
		assert.Contains(t, out.Fragments, "nothing happened")
	})

	t.Run("zero probability never applies", func(t *testing.T) {
		zero := []domain.Effect{{
			Kind:        domain.EffectKindTriggered,
			Type:        domain.EffectHeal,
			Value:       10,
			Probability: 0,
		}}
		out, err := domain.ResolveEffects(actor, zero, nil, fixedRand{value: 0}, false)
		require.NoError(t, err)
		assert.Equal(t, 50, out.Actor.HP)
	})

	t.Run("alwaysApply bypasses the draw", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, effects, nil, fixedRand{value: 99}, true)
		require.NoError(t, err)
		assert.Equal(t, 60, out.Actor.HP)
	})
}

func TestResolveEffectsHealClampsToMax(t *testing.T) {
	effects := []domain.Effect{{
		Kind:        domain.EffectKindTriggered,
		Type:        domain.EffectHeal,
		Value:       500,
		Probability: 100,
	}}
	out, err := domain.ResolveEffects(domain.AttributeSnapshot{HP: 90, MaxHP: 100}, effects, nil, fixedRand{}, false)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Actor.HP)
}

func TestResolveEffectsHPCostFloorsAtZero(t *testing.T) {
	effects := []domain.Effect{{
		Kind:        domain.EffectKindTriggered,
		Type:        domain.EffectHPCost,
		Value:       500,
		Probability: 100,
	}}
	out, err := domain.ResolveEffects(domain.AttributeSnapshot{HP: 30, MaxHP: 100}, effects, nil, fixedRand{}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Actor.HP)
}

func TestResolveEffectsDamageEnemy(t *testing.T) {
	damage := []domain.Effect{{
		Kind:        domain.EffectKindTriggered,
		Type:        domain.EffectDamageEnemy,
		Value:       25,
		Probability: 100,
	}}
	actor := domain.AttributeSnapshot{HP: 50, MaxHP: 100}

	t.Run("missing target", func(t *testing.T) {
		_, err := domain.ResolveEffects(actor, damage, nil, fixedRand{}, false)
		assert.ErrorIs(t, err, domain.ErrMissingTarget)
	})

	t.Run("defeated target", func(t *testing.T) {
		target := &domain.Monster{ID: "m1", Name: "Husk", HP: 0, OriginalHP: 40}
		_, err := domain.ResolveEffects(actor, damage, target, fixedRand{}, false)
		assert.ErrorIs(t, err, domain.ErrTargetAlreadyDefeated)
	})

	t.Run("damage floors target at zero and accumulates", func(t *testing.T) {
		target := &domain.Monster{ID: "m1", Name: "Husk", HP: 20, OriginalHP: 40}
		out, err := domain.ResolveEffects(actor, damage, target, fixedRand{}, false)
		require.NoError(t, err)
		assert.Equal(t, 0, target.HP)
		assert.Equal(t, 25, out.TotalDamage)
	})
}

func TestResolveEffectsBuffs(t *testing.T) {
	effects := []domain.Effect{
		{
			Kind:        domain.EffectKindTriggered,
			Type:        domain.EffectAtkBuff,
			Value:       5,
			Probability: 100,
			Duration:    3,
		},
		{
			Kind:        domain.EffectKindTriggered,
			Type:        domain.EffectDefBuff,
			Value:       2,
			Probability: 100,
			Duration:    0, // instant buffs are dropped
		},
	}
	out, err := domain.ResolveEffects(domain.AttributeSnapshot{HP: 50, MaxHP: 100}, effects, nil, fixedRand{}, false)
	require.NoError(t, err)
	require.Len(t, out.Buffs, 1)
	assert.Equal(t, domain.EffectAtkBuff, out.Buffs[0].Effect.Type)
	assert.Equal(t, 3, out.Buffs[0].TurnsLeft)
}

func TestResolveEffectsAttribute(t *testing.T) {
	actor := domain.AttributeSnapshot{HP: 50, MaxHP: 100, Atk: 10, Def: 8}

	t.Run("add", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, []domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "atk", Op: domain.OpAdd, Value: 4},
		}, nil, fixedRand{}, false)
		require.NoError(t, err)
		assert.Equal(t, 14, out.Actor.Atk)
	})

	t.Run("multiply clamps hp to max", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, []domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "hp", Op: domain.OpMultiply, Value: 3},
		}, nil, fixedRand{}, false)
		require.NoError(t, err)
		assert.Equal(t, 100, out.Actor.HP)
	})

	t.Run("dice adds a roll of 1dValue", func(t *testing.T) {
		out, err := domain.ResolveEffects(actor, []domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "def", Op: domain.OpDice, Value: 6},
		}, nil, fixedRand{value: 3}, false)
		require.NoError(t, err)
		assert.Equal(t, 12, out.Actor.Def)
	})
}

func TestResolveEffectsApplyInOrder(t *testing.T) {
	// A heal after an hp cost must see the reduced HP.
	effects := []domain.Effect{
		{Kind: domain.EffectKindTriggered, Type: domain.EffectHPCost, Value: 40, Probability: 100},
		{Kind: domain.EffectKindTriggered, Type: domain.EffectHeal, Value: 10, Probability: 100},
	}
	out, err := domain.ResolveEffects(domain.AttributeSnapshot{HP: 50, MaxHP: 100}, effects, nil, fixedRand{}, false)
	require.NoError(t, err)
	assert.Equal(t, 20, out.Actor.HP)
}

func TestEffectiveAttack(t *testing.T) {
	sword := &domain.Item{
		Type: domain.ItemTypeEquipment,
		Effects: datatypes.NewJSONType([]domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "atk", Op: domain.OpAdd, Value: 5},
		}),
	}
	dagger := &domain.Item{
		Type: domain.ItemTypeEquipment,
		Effects: datatypes.NewJSONType([]domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "atk", Op: domain.OpDice, Value: 4},
		}),
	}
	charm := &domain.Item{
		Type: domain.ItemTypeEquipment,
		Effects: datatypes.NewJSONType([]domain.Effect{
			{Kind: domain.EffectKindAttribute, Attribute: "def", Op: domain.OpAdd, Value: 9},
		}),
	}

	// base 10 + flat 5 + die landing on 3; the def bonus never counts.
	got := domain.EffectiveAttack(10, []*domain.Item{sword, dagger, charm}, fixedRand{value: 2})
	assert.Equal(t, 18, got)
}
