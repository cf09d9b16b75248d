package engine

import (
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// guard rejects every command once the game ended or while a battle is open,
// and commands issued in the wrong phase.
func (e *Engine) guard(phase world.Phase) (Result, bool) {
	if e.w.GameOver {
		return fail(ReasonGameOver, "The game is over."), false
	}
	if e.combat.Active() != nil {
		return fail(ReasonCombatActive, "Resolve the active combat first."), false
	}
	if e.w.Phase != phase {
		return fail(ReasonWrongPhase, "Not in the %s phase.", phase), false
	}
	return Result{}, true
}

// Assign commits a leader of the active faction to a mission in hand.
// An empty target defaults to the leader's location.
func (e *Engine) Assign(leaderID, missionID, target string) Result {
	if res, ok := e.guard(world.PhaseAssignment); !ok {
		return res
	}
	w := e.w
	f := w.Active

	leader, ok := w.Leader(f, leaderID)
	if !ok {
		return fail(ReasonInvalidLeader, "No %s leader %q.", f.Title(), leaderID)
	}
	mission, ok := e.inHand(f, missionID)
	if !ok {
		return fail(ReasonInvalidMission, "Mission %q is not in the %s hand.", missionID, f.Title())
	}
	if leader.Captured {
		return fail(ReasonLeaderCaptured, "%s is captured.", leader.Name)
	}
	if w.Assigned[leader.ID] {
		return fail(ReasonLeaderAssigned, "%s is already assigned this phase.", leader.Name)
	}
	if leader.Exhausted {
		return fail(ReasonLeaderExhausted, "%s is exhausted.", leader.Name)
	}
	if have := leader.Skills.Get(mission.Skill); have < mission.MinSkill {
		return fail(ReasonInsufficientSkill, "%s needs %s %d+ (has %d).", leader.Name, mission.Skill, mission.MinSkill, have)
	}
	if target == "" {
		target = leader.Location
	}
	if _, ok := w.System(target); !ok {
		return fail(ReasonUnknownSystem, "Unknown system %q.", target)
	}

	w.Assignments[f] = append(w.Assignments[f], world.Assignment{Leader: leader, Mission: mission, Target: target})
	w.Assigned[leader.ID] = true
	w.AssignCount[f]++
	leader.OnMission = true
	e.logf("%s assigned to %s.", leader.Name, mission.Name)

	w.Active = f.Opponent()
	return okf("%s assigned to %s.", leader.Name, mission.Name)
}

// PassAssignment ends the active faction's assignments. The phase moves on
// once the other faction has passed too.
func (e *Engine) PassAssignment() Result {
	if res, ok := e.guard(world.PhaseAssignment); !ok {
		return res
	}
	w := e.w
	f := w.Active
	e.logf("%s passes on assignment.", f.Title())

	w.Passes[f] = true
	if w.Passes[f.Opponent()] {
		e.startCommand()
		return okf("%s passes. Command phase begins.", f.Title())
	}
	w.Active = f.Opponent()
	return okf("%s passes.", f.Title())
}

func (e *Engine) inHand(f content.Faction, missionID string) (content.MissionDef, bool) {
	for _, m := range e.w.Hands[f] {
		if m.ID == missionID {
			return m, true
		}
	}
	return content.MissionDef{}, false
}

func (e *Engine) startCommand() {
	w := e.w
	w.Phase = world.PhaseCommand
	w.Active = content.Liberation
	w.Passes = make(map[content.Faction]bool)
	e.logf("Command Phase begins. Resolve missions and move fleets.")
	for _, f := range content.Factions {
		for _, a := range w.Assignments[f] {
			e.logf("%s reveals: %s on %s", f.Title(), a.Leader.Name, a.Mission.Name)
		}
	}
}
