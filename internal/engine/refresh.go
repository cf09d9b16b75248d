package engine

import (
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/world"
)

// refresh runs the end-of-turn pipeline and starts the next turn unless the
// game was decided.
func (e *Engine) refresh() {
	w := e.w
	w.Phase = world.PhaseRefresh
	e.logf("Refresh Phase begins.")

	for _, f := range content.Factions {
		for _, l := range w.Leaders[f] {
			l.OnMission = false
			l.Exhausted = false
		}
		w.Assignments[f] = nil
	}

	for _, f := range content.Factions {
		e.refillHand(f)
	}
	for _, f := range content.Factions {
		e.produce(f)
	}
	for _, f := range content.Factions {
		for i := range w.Queue[f] {
			w.Queue[f][i].TurnsLeft--
		}
	}
	for _, f := range content.Factions {
		e.deploy(f)
	}
	e.scoreObjectives()

	w.TimeMarker = min(w.Turn, e.cat.Rules.MaxTurns)

	if e.checkWin(true) {
		return
	}

	w.Turn++
	w.Phase = world.PhaseAssignment
	w.Active = content.Liberation
	w.Passes = make(map[content.Faction]bool)
	w.Assigned = make(map[string]bool)
	w.AssignCount = make(map[content.Faction]int)
	w.Assignments = make(map[content.Faction][]world.Assignment)
	e.logf("Turn %d begins.", w.Turn)
}

// refillHand draws from the top of the deck up to the hand size. An empty
// deck is rebuilt from every mission not in hand.
func (e *Engine) refillHand(f content.Faction) {
	w := e.w
	size := e.cat.Rules.HandSize
	for len(w.Hands[f]) < size && len(w.Decks[f]) > 0 {
		deck := w.Decks[f]
		w.Hands[f] = append(w.Hands[f], deck[len(deck)-1])
		w.Decks[f] = deck[:len(deck)-1]
	}
	if len(w.Decks[f]) > 0 {
		return
	}
	inHand := make(map[string]bool, len(w.Hands[f]))
	for _, m := range w.Hands[f] {
		inHand[m.ID] = true
	}
	var pool []content.MissionDef
	for _, m := range e.cat.Missions[f] {
		if !inHand[m.ID] {
			pool = append(pool, m)
		}
	}
	dice.Shuffle(e.src, pool)
	w.Decks[f] = pool
}

// produce builds one basic unit at each loyal production system, in random
// order, up to the faction's cap.
func (e *Engine) produce(f content.Faction) {
	w := e.w
	var eligible []*world.System
	for _, id := range w.Order {
		if s := w.Systems[id]; s.Loyalty == content.LoyaltyOf(f) && s.Production {
			eligible = append(eligible, s)
		}
	}
	dice.Shuffle(e.src, eligible)

	limit := e.cat.Rules.BuildCaps[f]
	built := 0
	for _, s := range eligible {
		if built >= limit {
			break
		}
		unitType, ok := e.buildable(f, s)
		if !ok {
			continue
		}
		w.Spawn(s.ID, e.cat.MustUnitType(unitType))
		built++
	}
	if built > 0 {
		e.logf("%s produces %d new units.", f.Title(), built)
	}
}

func (e *Engine) buildable(f content.Faction, s *world.System) (string, bool) {
	for _, res := range s.Resources {
		if options := e.cat.Production[f][res]; len(options) > 0 {
			return options[0], true
		}
	}
	return "", false
}

func (e *Engine) deploy(f content.Faction) {
	w := e.w
	var pending []world.ProductionItem
	for _, item := range w.Queue[f] {
		if item.TurnsLeft > 0 {
			pending = append(pending, item)
			continue
		}
		t := e.cat.MustUnitType(item.UnitType)
		w.Spawn(item.System, t)
		if t.Unique {
			w.TitanBuilt = true
		}
		e.logf("%s deployed at %s.", t.Name, w.Systems[item.System].Name)
	}
	w.Queue[f] = pending
}

// checkWin decides the game if a victory condition holds. The turn limit is
// only enforced at the end of a refresh.
func (e *Engine) checkWin(atRefresh bool) bool {
	w := e.w
	if w.GameOver {
		return true
	}
	// Structures at the base do not hold it; only fighting ground units count.
	if w.BaseRevealed && w.Base != "" && len(w.Combatants(w.Base, content.Liberation, content.Ground)) == 0 {
		e.finish(content.Dominion, "The Dominion has found and destroyed the Liberation base! Dominion wins!")
		return true
	}
	if w.Reputation <= w.TimeMarker {
		e.finish(content.Liberation, "The Liberation has inspired the galaxy! Liberation wins!")
		return true
	}
	if atRefresh && w.Turn >= e.cat.Rules.MaxTurns {
		e.finish(content.Dominion, "Time has run out. The Dominion maintains its iron grip. Dominion wins!")
		return true
	}
	return false
}

func (e *Engine) finish(winner content.Faction, msg string) {
	w := e.w
	w.GameOver = true
	w.Winner = winner
	w.Phase = world.PhaseGameOver
	e.logf("%s", msg)
	e.log.Info("game over", "winner", winner, "turn", w.Turn, "reputation", w.Reputation, "time", w.TimeMarker)
}
