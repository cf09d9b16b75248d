package engine

import (
	"github.com/npow/galactic-uprising/internal/combat"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// InitCombat opens a battle at system. Combat may be opened in any phase.
func (e *Engine) InitCombat(system string) Result {
	if e.w.GameOver {
		return fail(ReasonGameOver, "The game is over.")
	}
	b, err := e.combat.Init(system)
	if err != nil {
		return combatFailure(err)
	}
	e.combatFromMove = false
	e.battleSeen = 0
	e.mirrorBattle(b)
	res := okf("Combat at %s begins in %s.", e.w.Systems[system].Name, b.Domain())
	res.Combat = true
	res.System = system
	return res
}

// PlayCard plays a tactic card for f in the current round.
func (e *Engine) PlayCard(f content.Faction, cardID string) Result {
	if e.w.GameOver {
		return fail(ReasonGameOver, "The game is over.")
	}
	b := e.combat.Active()
	if err := e.combat.PlayCard(f, cardID); err != nil {
		return combatFailure(err)
	}
	e.mirrorBattle(b)
	card := b.Played[f]
	res := okf("%s plays %s.", f.Title(), card.Name)
	res.Combat = true
	res.System = b.System
	return res
}

// CombatRound resolves one round of the active battle.
func (e *Engine) CombatRound() Result {
	if e.w.GameOver {
		return fail(ReasonGameOver, "The game is over.")
	}
	b := e.combat.Active()
	rr, err := e.combat.Round()
	if err != nil {
		return combatFailure(err)
	}
	e.mirrorBattle(b)

	res := okf("Round %d of %s combat at %s resolved.", rr.Round, rr.Domain, e.w.Systems[b.System].Name)
	res.Combat = true
	res.System = b.System
	res.Round = &rr
	if rr.Outcome != nil {
		res.Outcome = rr.Outcome
		e.afterCombat()
	}
	return res
}

// Retreat ends the active battle with f fleeing.
func (e *Engine) Retreat(f content.Faction) Result {
	if e.w.GameOver {
		return fail(ReasonGameOver, "The game is over.")
	}
	b := e.combat.Active()
	out, err := e.combat.Retreat(f)
	if err != nil {
		return combatFailure(err)
	}
	e.mirrorBattle(b)
	res := okf("%s retreats from %s.", f.Title(), e.w.Systems[out.System].Name)
	res.Combat = true
	res.System = out.System
	res.Outcome = &out
	e.afterCombat()
	return res
}

// afterCombat hands control back to the phase machine once a battle is over.
func (e *Engine) afterCombat() {
	fromMove := e.combatFromMove
	e.combatFromMove = false
	e.battleSeen = 0
	if e.checkWin(false) {
		return
	}
	if fromMove && e.w.Phase == world.PhaseCommand {
		e.advanceCommandTurn()
	}
}

func (e *Engine) mirrorBattle(b *combat.Battle) {
	if b == nil {
		return
	}
	for _, line := range b.Log[e.battleSeen:] {
		e.logf("%s", line)
	}
	e.battleSeen = len(b.Log)
}
