package domain

import "fmt"

// AttributeSnapshot is an actor's resolved stats at action time. Attribute
// effects mutate the snapshot; only HP changes are persisted back to the
// participant record.
type AttributeSnapshot struct {
	HP    int
	MaxHP int
	Atk   int
	Def   int
}

// EffectOutcome carries everything a combat transaction needs to commit after
// resolving an effect list.
type EffectOutcome struct {
	Actor       AttributeSnapshot
	Fragments   []string
	TotalDamage int
	Buffs       []ActiveBuff
}

// ResolveEffects applies effects in list order against the actor snapshot and
// the optional target monster (mutated in place). Triggered effects draw an
// independent uniform [0,100) per effect and apply only when the draw is
// strictly under the probability; alwaysApply bypasses the draw (skill
// effects carry no probability). Healing clamps to max HP, damage and hp
// costs floor at 0.
func ResolveEffects(actor AttributeSnapshot, effects []Effect, target *Monster, rng RandSource, alwaysApply bool) (EffectOutcome, error) {
	out := EffectOutcome{Actor: actor}
	for _, e := range effects {
		switch e.Kind {
		case EffectKindAttribute:
			out.applyAttribute(e, rng)
		case EffectKindTriggered:
			if !alwaysApply && rng.Intn(100) >= e.Probability {
				out.Fragments = append(out.Fragments, "nothing happened")
				continue
			}
			if err := out.applyTriggered(e, target); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func (o *EffectOutcome) applyAttribute(e Effect, rng RandSource) {
	delta := 0
	switch e.Op {
	case OpAdd:
		delta = e.Value
	case OpDice:
		delta = RollFormula(fmt.Sprintf("1d%d", e.Value), rng)
	case OpMultiply:
		switch e.Attribute {
		case "hp":
			o.Actor.HP *= e.Value
		case "atk":
			o.Actor.Atk *= e.Value
		case "def":
			o.Actor.Def *= e.Value
		}
		o.clampHP()
		o.Fragments = append(o.Fragments, fmt.Sprintf("%s multiplied by %d", e.Attribute, e.Value))
		return
	}
	switch e.Attribute {
	case "hp":
		o.Actor.HP += delta
	case "atk":
		o.Actor.Atk += delta
	case "def":
		o.Actor.Def += delta
	}
	o.clampHP()
	o.Fragments = append(o.Fragments, fmt.Sprintf("%s +%d", e.Attribute, delta))
}

func (o *EffectOutcome) applyTriggered(e Effect, target *Monster) error {
	switch e.Type {
	case EffectHeal:
		o.Actor.HP += e.Value
		o.clampHP()
		o.Fragments = append(o.Fragments, fmt.Sprintf("healed %d HP (now %d/%d)", e.Value, o.Actor.HP, o.Actor.MaxHP))
	case EffectHPCost:
		o.Actor.HP -= e.Value
		if o.Actor.HP < 0 {
			o.Actor.HP = 0
		}
		o.Fragments = append(o.Fragments, fmt.Sprintf("paid %d HP (now %d/%d)", e.Value, o.Actor.HP, o.Actor.MaxHP))
	case EffectDamageEnemy:
		if target == nil {
			return ErrMissingTarget
		}
		if target.HP <= 0 {
			return ErrTargetAlreadyDefeated
		}
		target.HP -= e.Value
		if target.HP < 0 {
			target.HP = 0
		}
		o.TotalDamage += e.Value
		o.Fragments = append(o.Fragments, fmt.Sprintf("dealt %d damage to %s (now %d HP)", e.Value, target.Name, target.HP))
	case EffectAtkBuff, EffectDefBuff:
		if e.Duration > 0 {
			o.Buffs = append(o.Buffs, ActiveBuff{Effect: e, TurnsLeft: e.Duration})
			o.Fragments = append(o.Fragments, fmt.Sprintf("%s +%d for %d turns", e.Type, e.Value, e.Duration))
		}
	}
	return nil
}

func (o *EffectOutcome) clampHP() {
	if o.Actor.HP > o.Actor.MaxHP {
		o.Actor.HP = o.Actor.MaxHP
	}
	if o.Actor.HP < 0 {
		o.Actor.HP = 0
	}
}

// EffectiveAttack is a base attack plus the flat/dice atk bonuses of the
// given equipped items. Dice bonuses re-roll on every call.
func EffectiveAttack(base int, equipped []*Item, rng RandSource) int {
	atk := base
	for _, item := range equipped {
		for _, e := range item.AtkBonusEffects() {
			switch e.Op {
			case OpAdd:
				atk += e.Value
			case OpDice:
				atk += RollFormula(fmt.Sprintf("1d%d", e.Value), rng)
			}
		}
	}
	return atk
}
