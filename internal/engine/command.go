package engine

import (
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// ResolveMission carries out the active faction's pending assignment at index.
func (e *Engine) ResolveMission(index int) Result {
	if res, ok := e.guard(world.PhaseCommand); !ok {
		return res
	}
	w := e.w
	f := w.Active
	pending := w.Assignments[f]
	if index < 0 || index >= len(pending) {
		return fail(ReasonNoSuchAssignment, "No such assignment.")
	}
	a := pending[index]

	msg := e.runEffect(f, a.Leader, a.Mission, a.Target)

	w.Assignments[f] = removeAssignment(w.Assignments[f], a.Leader.ID)
	if !a.Leader.Captured {
		a.Leader.Location = a.Target
	}
	a.Leader.OnMission = false
	if !a.Mission.Repeatable {
		e.discard(f, a.Mission.ID)
	}
	e.logf("%s completes %s: %s", a.Leader.Name, a.Mission.Name, msg)

	res := okf("%s", msg)
	res.System = a.Target
	if e.checkWin(false) {
		return res
	}
	e.advanceCommandTurn()
	return res
}

// PassCommand gives up the active faction's remaining command actions.
func (e *Engine) PassCommand() Result {
	if res, ok := e.guard(world.PhaseCommand); !ok {
		return res
	}
	w := e.w
	f := w.Active
	other := f.Opponent()
	w.Passes[f] = true
	e.logf("%s passes.", f.Title())

	if w.Passes[other] || len(w.Assignments[other]) == 0 {
		e.refresh()
		return okf("%s passes. Refresh phase.", f.Title())
	}
	w.Active = other
	return okf("%s passes.", f.Title())
}

// advanceCommandTurn hands control to the other faction unless it has nothing
// left to resolve. With no assignments left on either side the turn refreshes.
func (e *Engine) advanceCommandTurn() {
	w := e.w
	current := w.Active
	other := current.Opponent()
	currentHas := len(w.Assignments[current]) > 0
	otherHas := len(w.Assignments[other]) > 0

	switch {
	case !currentHas && !otherHas:
		e.refresh()
	case !otherHas:
	default:
		w.Active = other
	}
}

func (e *Engine) discard(f content.Faction, missionID string) {
	hand := e.w.Hands[f]
	for i, m := range hand {
		if m.ID == missionID {
			e.w.Hands[f] = append(hand[:i:i], hand[i+1:]...)
			return
		}
	}
}

func removeAssignment(list []world.Assignment, leaderID string) []world.Assignment {
	out := list[:0:0]
	for _, a := range list {
		if a.Leader.ID != leaderID {
			out = append(out, a)
		}
	}
	return out
}
