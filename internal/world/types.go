// Package world holds the mutable aggregate of a running game.
package world

import (
	"github.com/npow/galactic-uprising/internal/content"
)

// Phase is a step of the turn state machine.
type Phase string

const (
	PhaseAssignment Phase = "assignment"
	PhaseCommand    Phase = "command"
	PhaseRefresh    Phase = "refresh"
	PhaseGameOver   Phase = "gameOver"
)

func (p Phase) String() string {
	return string(p)
}

// System is the live state of a star system.
type System struct {
	ID         string
	Name       string
	Region     string
	Loyalty    content.Loyalty
	Production bool
	Resources  []string
	Probed     bool
	Subjugated bool
	X, Y       float64
}

// Unit is one piece on the map.
type Unit struct {
	ID        string          `json:"id"`
	TypeID    string          `json:"type"`
	Name      string          `json:"name"`
	Faction   content.Faction `json:"faction"`
	Domain    content.Domain  `json:"domain"`
	MaxHealth int             `json:"max_health"`
	Damage    int             `json:"damage"`
	Light     bool            `json:"light,omitempty"`
}

// Remaining returns the health left.
func (u Unit) Remaining() int {
	return u.MaxHealth - u.Damage
}

// Destroyed reports whether damage reached max health.
func (u Unit) Destroyed() bool {
	return u.Damage >= u.MaxHealth
}

// IsStructure reports whether the unit is a fixed installation.
func (u Unit) IsStructure() bool {
	return u.Domain == content.Structure
}

// Roster holds the units of one system. Structures live in Ground.
type Roster struct {
	Space  []Unit
	Ground []Unit
}

// Leader is a faction leader.
type Leader struct {
	ID        string
	Name      string
	Faction   content.Faction
	Skills    content.Skills
	Location  string
	Captured  bool
	OnMission bool
	Exhausted bool
}

// Available reports whether the leader can command or take a mission.
func (l *Leader) Available() bool {
	return !l.Captured && !l.OnMission
}

// Assignment is a leader committed to a mission this turn.
type Assignment struct {
	Leader  *Leader
	Mission content.MissionDef
	Target  string
}

// ProductionItem is a unit under construction.
type ProductionItem struct {
	UnitType  string
	System    string
	TurnsLeft int
}

// Stats are the counters objectives read.
type Stats struct {
	UnitsDestroyedInBattle   int
	UnitsDestroyedByMissions int
	CapitalShipsDestroyed    int
	GroundDefenseWins        int
	SpaceWinsVs3Plus         int
	DomLeadersCaptured       int
}

// LogEntry is a line of the game log.
type LogEntry struct {
	Turn    int    `json:"turn"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}
