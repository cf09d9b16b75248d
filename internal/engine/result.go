package engine

import (
	"errors"
	"fmt"

	"github.com/npow/galactic-uprising/internal/combat"
)

// Reason is a stable code for a rejected command.
type Reason string

const (
	ReasonGameOver          Reason = "game_over"
	ReasonCombatActive      Reason = "combat_active"
	ReasonNoActiveCombat    Reason = "no_active_combat"
	ReasonWrongPhase        Reason = "wrong_phase"
	ReasonInvalidLeader     Reason = "invalid_leader"
	ReasonInvalidMission    Reason = "invalid_mission"
	ReasonLeaderCaptured    Reason = "leader_captured"
	ReasonLeaderAssigned    Reason = "leader_assigned"
	ReasonLeaderExhausted   Reason = "leader_exhausted"
	ReasonInsufficientSkill Reason = "insufficient_skill"
	ReasonUnknownSystem     Reason = "unknown_system"
	ReasonNoSuchAssignment  Reason = "no_such_assignment"
	ReasonNotAdjacent       Reason = "not_adjacent"
	ReasonNoCommander       Reason = "no_commander"
	ReasonLeaderUnavailable Reason = "leader_unavailable"
	ReasonNoUnits           Reason = "no_units"
	ReasonUnknownUnit       Reason = "unknown_unit"
	ReasonImmobileUnit      Reason = "immobile_unit"
	ReasonNoOpposingForces  Reason = "no_opposing_forces"
	ReasonInvalidFaction    Reason = "invalid_faction"
	ReasonUnknownCard       Reason = "unknown_card"
	ReasonCardWrongDomain   Reason = "card_wrong_domain"
	ReasonCardAlreadyPlayed Reason = "card_already_played"
)

// Result is the outcome of a command.
type Result struct {
	OK      bool                `json:"ok"`
	Reason  Reason              `json:"reason,omitempty"`
	Message string              `json:"message"`
	Combat  bool                `json:"combat,omitempty"`
	System  string              `json:"system,omitempty"`
	Round   *combat.RoundResult `json:"round,omitempty"`
	Outcome *combat.Outcome     `json:"outcome,omitempty"`
}

func (r Result) String() string {
	if r.OK {
		return r.Message
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func okf(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func fail(reason Reason, format string, args ...any) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func combatFailure(err error) Result {
	reasons := []struct {
		err    error
		reason Reason
	}{
		{combat.ErrCombatActive, ReasonCombatActive},
		{combat.ErrNoActiveCombat, ReasonNoActiveCombat},
		{combat.ErrNoOpposingForces, ReasonNoOpposingForces},
		{combat.ErrUnknownSystem, ReasonUnknownSystem},
		{combat.ErrInvalidFaction, ReasonInvalidFaction},
		{combat.ErrUnknownCard, ReasonUnknownCard},
		{combat.ErrCardWrongDomain, ReasonCardWrongDomain},
		{combat.ErrCardAlreadyPlayed, ReasonCardAlreadyPlayed},
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return fail(r.reason, "%s", err.Error())
		}
	}
	return fail(ReasonNoActiveCombat, "%s", err.Error())
}
