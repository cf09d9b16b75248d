package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Faction identifies one of the two sides.
type Faction string

const (
	Dominion   Faction = "dominion"
	Liberation Faction = "liberation"
)

// Factions lists both sides in the order the refresh pipeline visits them.
var Factions = []Faction{Dominion, Liberation}

// Opponent returns the other faction.
func (f Faction) Opponent() Faction {
	if f == Dominion {
		return Liberation
	}
	return Dominion
}

// Valid reports whether f names a known faction.
func (f Faction) Valid() bool {
	return f == Dominion || f == Liberation
}

// Loyalty is the allegiance of a system.
type Loyalty string

const (
	LoyalDominion   Loyalty = "dominion"
	LoyalLiberation Loyalty = "liberation"
	Neutral         Loyalty = "neutral"
)

// LoyaltyOf returns the loyalty value matching a faction.
func LoyaltyOf(f Faction) Loyalty {
	return Loyalty(f)
}

// Domain is where a unit fights.
type Domain string

const (
	Space     Domain = "space"
	Ground    Domain = "ground"
	Structure Domain = "structure"
)

// Skill names one of the four leader skills.
type Skill string

const (
	Diplomacy Skill = "diplomacy"
	Intel     Skill = "intel"
	Combat    Skill = "combat"
	Logistics Skill = "logistics"
)

// Skills holds a leader's skill values.
type Skills struct {
	Diplomacy int `yaml:"diplomacy" json:"diplomacy"`
	Intel     int `yaml:"intel" json:"intel"`
	Combat    int `yaml:"combat" json:"combat"`
	Logistics int `yaml:"logistics" json:"logistics"`
}

// Get returns the value of the named skill, 0 for unknown names.
func (s Skills) Get(k Skill) int {
	switch k {
	case Diplomacy:
		return s.Diplomacy
	case Intel:
		return s.Intel
	case Combat:
		return s.Combat
	case Logistics:
		return s.Logistics
	}
	return 0
}

// Attack is a dice profile by color.
type Attack struct {
	Red   int `yaml:"red" json:"red"`
	Black int `yaml:"black" json:"black"`
}

// Region groups systems for objective scoring.
type Region struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// SystemDef is the static description of a star system.
type SystemDef struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Region     string   `yaml:"region"`
	Loyalty    Loyalty  `yaml:"loyalty"`
	Production bool     `yaml:"production"`
	Resources  []string `yaml:"resources"`
	X          float64  `yaml:"x"`
	Y          float64  `yaml:"y"`
}

// UnitType is a unit definition.
type UnitType struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Faction         Faction `yaml:"faction"`
	Domain          Domain  `yaml:"domain"`
	Health          int     `yaml:"health"`
	Attack          Attack  `yaml:"attack"`
	Cost            int     `yaml:"cost"`
	Light           bool    `yaml:"light"`
	Capital         bool    `yaml:"capital"`
	Unique          bool    `yaml:"unique"`
	CarriesGround   int     `yaml:"carries_ground"`
	CarriesFighters int     `yaml:"carries_fighters"`
}

// IsStructure reports whether the type never moves nor fights.
func (u UnitType) IsStructure() bool {
	return u.Domain == Structure
}

// LeaderDef is a starting leader.
type LeaderDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Start  string `yaml:"start"`
	Skills Skills `yaml:"skills"`
}

// MissionDef is a mission card.
type MissionDef struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Skill      Skill  `yaml:"skill" json:"skill"`
	MinSkill   int    `yaml:"min_skill" json:"min_skill"`
	Effect     Effect `yaml:"effect" json:"effect"`
	Repeatable bool   `yaml:"repeatable" json:"repeatable"`
}

// ObjectiveDef is a Liberation objective card.
type ObjectiveDef struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Points int    `yaml:"points" json:"points"`
	Tier   int    `yaml:"tier" json:"tier"`
	Check  Check  `yaml:"check" json:"check"`
}

// Card is a combat tactic card.
type Card struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Domain         Domain `yaml:"domain"`
	Text           string `yaml:"text"`
	Bonus          Attack `yaml:"bonus"`
	Block          int    `yaml:"block"`
	Pierce         bool   `yaml:"pierce"`
	Reroll         bool   `yaml:"reroll"`
	DoubleHits     bool   `yaml:"double_hits"`
	DirectHitLight int    `yaml:"direct_hit_light"`
	SelfDamage     int    `yaml:"self_damage"`
	Draw           int    `yaml:"draw"`
}

// BasicUnits names the unit types missions create directly.
type BasicUnits struct {
	Trooper   string `yaml:"trooper"`
	Structure string `yaml:"structure"`
	Titan     string `yaml:"titan"`
}

// UnitCount is a number of units of one type.
type UnitCount struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

// Placement puts starting units in a system. BaseSystem stands for the
// Liberation base chosen at setup.
type Placement struct {
	System string      `yaml:"system"`
	Units  []UnitCount `yaml:"units"`
}

// BaseSystem is the placeholder system id for the hidden base.
const BaseSystem = "_base_"

// Rules are the game constants.
type Rules struct {
	MaxTurns           int             `yaml:"max_turns"`
	StartingReputation int             `yaml:"starting_reputation"`
	HandSize           int             `yaml:"hand_size"`
	FaceUpObjectives   int             `yaml:"face_up_objectives"`
	TitanBuildTurns    int             `yaml:"titan_build_turns"`
	LogLimit           int             `yaml:"log_limit"`
	FirstPlayer        Faction         `yaml:"first_player"`
	BuildCaps          map[Faction]int `yaml:"build_caps"`
	BaseRegions        []string        `yaml:"base_regions"`
	CoreRegion         string          `yaml:"core_region"`
	RecruitNames       []string        `yaml:"recruit_names"`
	RecruitSkills      Skills          `yaml:"recruit_skills"`
}

// IsBaseRegion reports whether the hidden base may be placed in region.
func (r Rules) IsBaseRegion(region string) bool {
	for _, b := range r.BaseRegions {
		if b == region {
			return true
		}
	}
	return false
}

func decodeTag(value *yaml.Node, kind string) (string, error) {
	var tag string
	if err := value.Decode(&tag); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", kind, err)
	}
	return tag, nil
}
