package engine

import (
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// Adjacent lists the systems connected to system.
func (e *Engine) Adjacent(system string) []string {
	return e.w.Adjacent(system)
}

// UnitsOf returns the faction's units at system, space roster first.
func (e *Engine) UnitsOf(system string, f content.Faction) []world.Unit {
	space, ground := e.w.UnitsOf(system, f)
	return append(space, ground...)
}

// LeadersIn lists the faction's non-captured leaders at system.
func (e *Engine) LeadersIn(system string, f content.Faction) []*world.Leader {
	return e.w.LeadersAt(system, f)
}

// TotalUnits counts the faction's units on the map.
func (e *Engine) TotalUnits(f content.Faction) int {
	return e.w.TotalUnits(f)
}

// HasOpposingForces reports whether a battle could be fought at system.
func (e *Engine) HasOpposingForces(system string) bool {
	return e.w.HasOpposingForces(system)
}

// AvailableCards lists the tactic cards f may play in the active battle.
func (e *Engine) AvailableCards(f content.Faction) []content.Card {
	if e.combat.Active() == nil {
		return nil
	}
	return e.combat.Available(f)
}

// Hand returns the faction's mission hand.
func (e *Engine) Hand(f content.Faction) []content.MissionDef {
	return append([]content.MissionDef(nil), e.w.Hands[f]...)
}

// Assignments returns the faction's pending assignments in resolution order.
func (e *Engine) Assignments(f content.Faction) []world.Assignment {
	return append([]world.Assignment(nil), e.w.Assignments[f]...)
}

// Eligible lists the faction's leaders that could take a mission now.
func (e *Engine) Eligible(f content.Faction) []*world.Leader {
	var out []*world.Leader
	for _, l := range e.w.Leaders[f] {
		if !l.Captured && !l.Exhausted && !e.w.Assigned[l.ID] {
			out = append(out, l)
		}
	}
	return out
}
