package domain

import "errors"

// Combat resolution errors
var (
	ErrMissingTarget         = errors.New("a target is required for this effect")
	ErrTargetNotFound        = errors.New("target not found")
	ErrTargetAlreadyDefeated = errors.New("target is already defeated")
)

// Resource errors
var (
	ErrInsufficientCurrency = errors.New("insufficient currency")
	ErrFactionRestricted    = errors.New("not available to your faction")
	ErrRaceRestricted       = errors.New("not available to your race")
)

// Encounter errors
var (
	ErrEncounterNotActive = errors.New("encounter is not active")
	ErrInvalidTransition  = errors.New("encounter status cannot move backward")
	ErrNotParticipant     = errors.New("user is not a participant of this encounter")
	ErrParticipantDown    = errors.New("participant has no HP left")
	ErrSkillOnCooldown    = errors.New("skill is still on cooldown")
)
