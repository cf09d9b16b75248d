package engine

import (
	"github.com/npow/galactic-uprising/internal/world"
)

// MoveOrder moves units, and optionally one leader, between adjacent systems.
type MoveOrder struct {
	From   string
	To     string
	Units  []string
	Leader string
}

// Move relocates the active faction's units. The order is validated as a
// whole before anything moves. A move into hostile forces opens combat and
// the command turn advances once that combat is over.
func (e *Engine) Move(order MoveOrder) Result {
	if res, ok := e.guard(world.PhaseCommand); !ok {
		return res
	}
	w := e.w
	f := w.Active

	from, ok := w.System(order.From)
	if !ok {
		return fail(ReasonUnknownSystem, "Unknown system %q.", order.From)
	}
	to, ok := w.System(order.To)
	if !ok {
		return fail(ReasonUnknownSystem, "Unknown system %q.", order.To)
	}
	if !w.IsAdjacent(from.ID, to.ID) {
		return fail(ReasonNotAdjacent, "%s is not adjacent to %s.", to.Name, from.Name)
	}
	if len(order.Units) == 0 {
		return fail(ReasonNoUnits, "No units selected.")
	}

	var leader *world.Leader
	if order.Leader != "" {
		leader, ok = w.Leader(f, order.Leader)
		if !ok {
			return fail(ReasonInvalidLeader, "No %s leader %q.", f.Title(), order.Leader)
		}
		if leader.Location != from.ID || !leader.Available() {
			return fail(ReasonLeaderUnavailable, "%s cannot move from %s.", leader.Name, from.Name)
		}
	}
	if !e.hasCommander(from.ID, to.ID) {
		return fail(ReasonNoCommander, "No %s leader at %s or %s to command the move.", f.Title(), from.Name, to.Name)
	}

	ids := make([]string, 0, len(order.Units))
	seen := make(map[string]bool, len(order.Units))
	for _, id := range order.Units {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := w.FindUnit(from.ID, id)
		if !ok || u.Faction != f {
			return fail(ReasonUnknownUnit, "No %s unit %q at %s.", f.Title(), id, from.Name)
		}
		if u.IsStructure() {
			return fail(ReasonImmobileUnit, "%s cannot move.", u.Name)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		w.MoveUnit(from.ID, to.ID, id)
	}
	if leader != nil {
		leader.Location = to.ID
	}
	e.logf("%s moves %d units from %s to %s.", f.Title(), len(ids), from.Name, to.Name)

	if w.HasOpposingForces(to.ID) {
		if _, err := e.combat.Init(to.ID); err != nil {
			return combatFailure(err)
		}
		e.combatFromMove = true
		e.battleSeen = 0
		e.mirrorBattle(e.combat.Active())
		res := okf("Combat at %s!", to.Name)
		res.Combat = true
		res.System = to.ID
		return res
	}

	e.advanceCommandTurn()
	res := okf("Moved %d units to %s.", len(ids), to.Name)
	res.System = to.ID
	return res
}

func (e *Engine) hasCommander(from, to string) bool {
	for _, l := range e.w.Leaders[e.w.Active] {
		if (l.Location == from || l.Location == to) && l.Available() {
			return true
		}
	}
	return false
}
