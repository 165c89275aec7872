package domain

type Faction string

const (
	FactionYelu        Faction = "yelu"
	FactionAssociation Faction = "association"
	FactionAll         Faction = "all"
)

// Factions lists the two competing alignments. FactionAll is only a
// restriction sentinel on items/skills, never a user's faction.
var Factions = []Faction{FactionYelu, FactionAssociation}

func (f Faction) Valid() bool {
	return f == FactionYelu || f == FactionAssociation
}

type Race string

const (
	RaceHuman    Race = "human"
	RaceOni      Race = "oni"
	RaceSpirit   Race = "spirit"
	RaceBeastkin Race = "beastkin"
	RaceAll      Race = "all"
)

type RaceStats struct {
	HP  int
	Atk int
	Def int
}

// RaceBaseStats defines the starting combat stats per race.
var RaceBaseStats = map[Race]RaceStats{
	RaceHuman:    {HP: 100, Atk: 10, Def: 8},
	RaceOni:      {HP: 120, Atk: 12, Def: 5},
	RaceSpirit:   {HP: 80, Atk: 8, Def: 12},
	RaceBeastkin: {HP: 110, Atk: 11, Def: 6},
}

func (r Race) Valid() bool {
	_, ok := RaceBaseStats[r]
	return ok
}
