package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SeasonStatus string

const (
	SeasonCurrent  SeasonStatus = "current"
	SeasonArchived SeasonStatus = "archived"
)

// FactionTotals is one faction's seasonal aggregate. RawScore only ever
// grows; ActivePlayers holds the user IDs that contributed this season.
type FactionTotals struct {
	RawScore      int      `json:"rawScore"`
	WeightedScore int      `json:"weightedScore"` // set at archival
	ActivePlayers []string `json:"activePlayers"`
}

type Season struct {
	ID         uuid.UUID                                     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Status     SeasonStatus                                  `json:"status" gorm:"not null;default:'current';index"`
	Totals     datatypes.JSONType[map[Faction]FactionTotals] `json:"totals" gorm:"type:jsonb"`
	StartedAt  time.Time                                     `json:"startedAt"`
	ArchivedAt *time.Time                                    `json:"archivedAt"`
}

// EmptyTotals returns zeroed aggregates for both factions.
func EmptyTotals() map[Faction]FactionTotals {
	totals := make(map[Faction]FactionTotals, len(Factions))
	for _, f := range Factions {
		totals[f] = FactionTotals{ActivePlayers: []string{}}
	}
	return totals
}

// AddScore accumulates points for a faction and marks the contributing user
// active, at most once per season.
func (s *Season) AddScore(f Faction, points int, userID string) {
	totals := s.Totals.Data()
	if totals == nil {
		totals = EmptyTotals()
	}
	t := totals[f]
	t.RawScore += points
	active := false
	for _, id := range t.ActivePlayers {
		if id == userID {
			active = true
			break
		}
	}
	if !active {
		t.ActivePlayers = append(t.ActivePlayers, userID)
	}
	totals[f] = t
	s.Totals = datatypes.NewJSONType(totals)
}

// SeasonWeights computes the per-faction score weight: totalActive/active_f,
// defaulting to 1 when either side of the division is zero.
func SeasonWeights(totals map[Faction]FactionTotals) map[Faction]float64 {
	total := 0
	for _, t := range totals {
		total += len(t.ActivePlayers)
	}
	weights := make(map[Faction]float64, len(totals))
	for f, t := range totals {
		if total > 0 && len(t.ActivePlayers) > 0 {
			weights[f] = float64(total) / float64(len(t.ActivePlayers))
		} else {
			weights[f] = 1
		}
	}
	return weights
}

// WeightedTotals returns a copy of the totals with WeightedScore filled in as
// round(rawScore * weight).
func WeightedTotals(totals map[Faction]FactionTotals) map[Faction]FactionTotals {
	weights := SeasonWeights(totals)
	out := make(map[Faction]FactionTotals, len(totals))
	for f, t := range totals {
		t.WeightedScore = int(math.Round(float64(t.RawScore) * weights[f]))
		out[f] = t
	}
	return out
}
