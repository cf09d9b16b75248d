package world

import (
	"fmt"

	"github.com/npow/galactic-uprising/internal/content"
)

// World is the whole mutable game state. The engine owns it; callers outside
// the engine should treat it as read-only.
type World struct {
	Catalog *content.Catalog

	Turn   int
	Phase  Phase
	Active content.Faction

	Systems   map[string]*System
	Order     []string
	adjacency map[string][]string
	Rosters   map[string]*Roster

	Leaders     map[content.Faction][]*Leader
	Decks       map[content.Faction][]content.MissionDef
	Hands       map[content.Faction][]content.MissionDef
	Assignments map[content.Faction][]Assignment
	Assigned    map[string]bool
	AssignCount map[content.Faction]int
	Passes      map[content.Faction]bool

	ProbeDeck     []string
	ProbeDiscards []string
	Base          string
	BaseRevealed  bool

	TimeMarker int
	Reputation int

	ObjectiveDeck []content.ObjectiveDef
	Objectives    []content.ObjectiveDef
	Completed     []content.ObjectiveDef

	Queue    map[content.Faction][]ProductionItem
	Cards    map[content.Faction][]content.Card
	Captured []*Leader

	TitanBuilt     bool
	TitanDestroyed bool
	Stats          Stats

	GameOver bool
	Winner   content.Faction

	Log []LogEntry

	nextUnit   int
	nextLeader int
}

// New lays out the map of cat with empty rosters and starting leaders.
// Random setup (decks, base, shuffles) is left to the caller.
func New(cat *content.Catalog) *World {
	w := &World{
		Catalog:     cat,
		Turn:        1,
		Phase:       PhaseAssignment,
		Active:      cat.Rules.FirstPlayer,
		Systems:     make(map[string]*System, len(cat.Systems)),
		adjacency:   make(map[string][]string, len(cat.Systems)),
		Rosters:     make(map[string]*Roster, len(cat.Systems)),
		Leaders:     make(map[content.Faction][]*Leader),
		Decks:       make(map[content.Faction][]content.MissionDef),
		Hands:       make(map[content.Faction][]content.MissionDef),
		Assignments: make(map[content.Faction][]Assignment),
		Assigned:    make(map[string]bool),
		AssignCount: make(map[content.Faction]int),
		Passes:      make(map[content.Faction]bool),
		Queue:       make(map[content.Faction][]ProductionItem),
		Cards:       make(map[content.Faction][]content.Card),
		Reputation:  cat.Rules.StartingReputation,
	}

	for _, def := range cat.Systems {
		w.Systems[def.ID] = &System{
			ID:         def.ID,
			Name:       def.Name,
			Region:     def.Region,
			Loyalty:    def.Loyalty,
			Production: def.Production,
			Resources:  append([]string(nil), def.Resources...),
			X:          def.X,
			Y:          def.Y,
		}
		w.Order = append(w.Order, def.ID)
		w.Rosters[def.ID] = &Roster{}
	}
	for _, pair := range cat.Connections {
		w.connect(pair[0], pair[1])
	}

	for _, f := range content.Factions {
		for _, def := range cat.Leaders[f] {
			w.Leaders[f] = append(w.Leaders[f], &Leader{
				ID:       def.ID,
				Name:     def.Name,
				Faction:  f,
				Skills:   def.Skills,
				Location: def.Start,
			})
		}
	}
	return w
}

func (w *World) connect(a, b string) {
	if !contains(w.adjacency[a], b) {
		w.adjacency[a] = append(w.adjacency[a], b)
	}
	if !contains(w.adjacency[b], a) {
		w.adjacency[b] = append(w.adjacency[b], a)
	}
}

// Adjacent lists the neighbours of id in connection order.
func (w *World) Adjacent(id string) []string {
	return append([]string(nil), w.adjacency[id]...)
}

// IsAdjacent reports whether a and b are connected.
func (w *World) IsAdjacent(a, b string) bool {
	return contains(w.adjacency[a], b)
}

// System returns the live system with id.
func (w *World) System(id string) (*System, bool) {
	s, ok := w.Systems[id]
	return s, ok
}

// NewUnit creates a unit of type t with a fresh id. It is not placed.
func (w *World) NewUnit(t content.UnitType) Unit {
	w.nextUnit++
	return Unit{
		ID:        fmt.Sprintf("u_%04d", w.nextUnit),
		TypeID:    t.ID,
		Name:      t.Name,
		Faction:   t.Faction,
		Domain:    t.Domain,
		MaxHealth: t.Health,
		Light:     t.Light,
	}
}

// Place puts u in the roster of its domain at system.
func (w *World) Place(system string, u Unit) {
	r := w.Rosters[system]
	if u.Domain == content.Space {
		r.Space = append(r.Space, u)
		return
	}
	r.Ground = append(r.Ground, u)
}

// Spawn creates a unit of type t and places it at system.
func (w *World) Spawn(system string, t content.UnitType) Unit {
	u := w.NewUnit(t)
	w.Place(system, u)
	return u
}

// FindUnit looks a unit up in the rosters of system.
func (w *World) FindUnit(system, id string) (Unit, bool) {
	r, ok := w.Rosters[system]
	if !ok {
		return Unit{}, false
	}
	for _, u := range r.Space {
		if u.ID == id {
			return u, true
		}
	}
	for _, u := range r.Ground {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// RemoveUnit takes a unit out of the rosters of system.
func (w *World) RemoveUnit(system, id string) (Unit, bool) {
	r, ok := w.Rosters[system]
	if !ok {
		return Unit{}, false
	}
	for i, u := range r.Space {
		if u.ID == id {
			r.Space = append(r.Space[:i], r.Space[i+1:]...)
			return u, true
		}
	}
	for i, u := range r.Ground {
		if u.ID == id {
			r.Ground = append(r.Ground[:i], r.Ground[i+1:]...)
			return u, true
		}
	}
	return Unit{}, false
}

// MoveUnit relocates a unit between systems keeping its domain.
func (w *World) MoveUnit(from, to, id string) bool {
	u, ok := w.RemoveUnit(from, id)
	if !ok {
		return false
	}
	w.Place(to, u)
	return true
}

// UnitsOf returns copies of the faction's units at system, split by roster.
func (w *World) UnitsOf(system string, f content.Faction) (space, ground []Unit) {
	r, ok := w.Rosters[system]
	if !ok {
		return nil, nil
	}
	for _, u := range r.Space {
		if u.Faction == f {
			space = append(space, u)
		}
	}
	for _, u := range r.Ground {
		if u.Faction == f {
			ground = append(ground, u)
		}
	}
	return space, ground
}

// Combatants returns the faction's units at system that fight in domain.
// Structures never fight.
func (w *World) Combatants(system string, f content.Faction, d content.Domain) []Unit {
	space, ground := w.UnitsOf(system, f)
	if d == content.Space {
		return space
	}
	var out []Unit
	for _, u := range ground {
		if !u.IsStructure() {
			out = append(out, u)
		}
	}
	return out
}

// Mobile returns the faction's units at system that can move.
func (w *World) Mobile(system string, f content.Faction) []Unit {
	return append(w.Combatants(system, f, content.Space), w.Combatants(system, f, content.Ground)...)
}

// TotalUnits counts every unit of the faction on the map.
func (w *World) TotalUnits(f content.Faction) int {
	n := 0
	for _, id := range w.Order {
		space, ground := w.UnitsOf(id, f)
		n += len(space) + len(ground)
	}
	return n
}

// HasOpposingForces reports whether both factions field combatants in the
// same domain at system.
func (w *World) HasOpposingForces(system string) bool {
	for _, d := range []content.Domain{content.Space, content.Ground} {
		if len(w.Combatants(system, content.Dominion, d)) > 0 && len(w.Combatants(system, content.Liberation, d)) > 0 {
			return true
		}
	}
	return false
}

// Leader finds a leader of the faction by id.
func (w *World) Leader(f content.Faction, id string) (*Leader, bool) {
	for _, l := range w.Leaders[f] {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// FindLeader finds a leader of either faction by id.
func (w *World) FindLeader(id string) (*Leader, bool) {
	for _, f := range content.Factions {
		if l, ok := w.Leader(f, id); ok {
			return l, true
		}
	}
	return nil, false
}

// LeadersAt lists the faction's non-captured leaders located at system.
func (w *World) LeadersAt(system string, f content.Faction) []*Leader {
	var out []*Leader
	for _, l := range w.Leaders[f] {
		if l.Location == system && !l.Captured {
			out = append(out, l)
		}
	}
	return out
}

// Recruit adds a new leader to the faction at location.
func (w *World) Recruit(f content.Faction, name string, skills content.Skills, location string) *Leader {
	w.nextLeader++
	l := &Leader{
		ID:       fmt.Sprintf("%s_recruit_%d", f, w.nextLeader),
		Name:     name,
		Faction:  f,
		Skills:   skills,
		Location: location,
	}
	w.Leaders[f] = append(w.Leaders[f], l)
	return l
}

// Append records a log line, dropping the oldest beyond the catalog limit.
func (w *World) Append(msg string) LogEntry {
	entry := LogEntry{Turn: w.Turn, Phase: w.Phase, Message: msg}
	w.Log = append(w.Log, entry)
	if limit := w.Catalog.Rules.LogLimit; limit > 0 && len(w.Log) > limit {
		w.Log = append([]LogEntry(nil), w.Log[len(w.Log)-limit:]...)
	}
	return entry
}

// CountLoyal counts systems with loyalty l, optionally filtered.
func (w *World) CountLoyal(l content.Loyalty, keep func(*System) bool) int {
	n := 0
	for _, id := range w.Order {
		s := w.Systems[id]
		if s.Loyalty == l && (keep == nil || keep(s)) {
			n++
		}
	}
	return n
}

// LoyalRegions counts distinct regions holding a system with loyalty l.
func (w *World) LoyalRegions(l content.Loyalty) int {
	seen := make(map[string]bool)
	for _, id := range w.Order {
		if s := w.Systems[id]; s.Loyalty == l {
			seen[s.Region] = true
		}
	}
	return len(seen)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
