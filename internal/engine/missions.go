package engine

import (
	"fmt"
	"strings"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/world"
)

// runEffect applies a mission effect for faction f and describes what
// happened. A mission that cannot be carried out changes nothing.
func (e *Engine) runEffect(f content.Faction, leader *world.Leader, m content.MissionDef, target string) string {
	sys, ok := e.w.System(target)
	if !ok {
		return "No valid target."
	}

	switch m.Effect {
	case content.EffectProbe:
		return e.probe(1)
	case content.EffectIntelSweep:
		return e.probe(2)
	case content.EffectSwayDominion:
		return sway(sys, content.Dominion)
	case content.EffectSwayLiberation:
		return sway(sys, content.Liberation)
	case content.EffectPropaganda:
		return e.propaganda(f)
	case content.EffectBombardment:
		return e.bombard(f, sys)
	case content.EffectHitAndRun:
		return e.hitAndRun(f, sys)
	case content.EffectGuerrilla:
		return e.guerrilla(f, sys)
	case content.EffectSubjugate:
		return e.subjugate(f, sys)
	case content.EffectBuildTitan:
		return e.buildTitan(f, sys)
	case content.EffectBuildStructure:
		return e.buildStructure(f, sys)
	case content.EffectCapture:
		return e.capture(f, leader, sys)
	case content.EffectLogisticsMove:
		return e.logisticsMove(f, sys)
	case content.EffectRapidMove:
		return e.rapidMove(f, sys)
	case content.EffectSabotage:
		return e.sabotage(f)
	case content.EffectCovertOp:
		return e.covertOp()
	case content.EffectUprising:
		return e.uprising(f, sys)
	case content.EffectRelocateBase:
		return e.relocateBase(f)
	case content.EffectRecruit:
		return e.recruit(f, leader)
	default:
		return "Mission completed."
	}
}

// probe draws up to n cards from the top of the probe deck. Drawing the true
// base reveals it and stops the draw.
func (e *Engine) probe(n int) string {
	w := e.w
	if len(w.ProbeDeck) == 0 {
		return "No more probe cards."
	}
	var drawn []string
	for i := 0; i < n && len(w.ProbeDeck) > 0; i++ {
		id := w.ProbeDeck[len(w.ProbeDeck)-1]
		w.ProbeDeck = w.ProbeDeck[:len(w.ProbeDeck)-1]
		w.ProbeDiscards = append(w.ProbeDiscards, id)
		s := w.Systems[id]
		s.Probed = true
		if id == w.Base {
			w.BaseRevealed = true
			e.logf("THE HIDDEN BASE HAS BEEN FOUND!")
			return fmt.Sprintf("Probe reveals %s - BASE FOUND!", s.Name)
		}
		drawn = append(drawn, s.Name)
	}
	return fmt.Sprintf("Probed %s - no base found.", strings.Join(drawn, ", "))
}

// sway moves a system one step toward f.
func sway(sys *world.System, f content.Faction) string {
	switch sys.Loyalty {
	case content.Neutral:
		sys.Loyalty = content.LoyaltyOf(f)
		return fmt.Sprintf("%s now loyal to %s.", sys.Name, f.Title())
	case content.LoyaltyOf(f.Opponent()):
		sys.Loyalty = content.Neutral
		return fmt.Sprintf("%s loyalty weakened to neutral.", sys.Name)
	}
	return fmt.Sprintf("%s already loyal.", sys.Name)
}

func (e *Engine) propaganda(f content.Faction) string {
	w := e.w
	count := 0
	for _, id := range w.Order {
		if count == 2 {
			break
		}
		if s := w.Systems[id]; s.Loyalty == content.Neutral {
			s.Loyalty = content.LoyaltyOf(f)
			count++
		}
	}
	return fmt.Sprintf("Propaganda shifts %d systems to %s loyalty.", count, f.Title())
}

func (e *Engine) bombard(f content.Faction, sys *world.System) string {
	w := e.w
	r := w.Rosters[sys.ID]
	var enemy []string
	for _, u := range r.Ground {
		if u.Faction != f {
			enemy = append(enemy, u.ID)
		}
	}
	destroyed := 0
	for i := len(enemy) - 1; i >= 0 && destroyed < 2; i-- {
		w.RemoveUnit(sys.ID, enemy[i])
		destroyed++
	}
	w.Stats.UnitsDestroyedByMissions += destroyed
	return fmt.Sprintf("Bombardment destroys %d enemy ground units.", destroyed)
}

func (e *Engine) hitAndRun(f content.Faction, sys *world.System) string {
	w := e.w
	for _, u := range w.Rosters[sys.ID].Space {
		if u.Faction != f {
			w.RemoveUnit(sys.ID, u.ID)
			w.Stats.UnitsDestroyedByMissions++
			return fmt.Sprintf("Hit and run! Destroyed enemy %s.", u.Name)
		}
	}
	return "No enemy ships to attack."
}

// guerrilla destroys up to two light enemy ships. Without a light target it
// damages the first enemy ship instead, never destroying it.
func (e *Engine) guerrilla(f content.Faction, sys *world.System) string {
	w := e.w
	r := w.Rosters[sys.ID]
	var lights []string
	first := -1
	for i, u := range r.Space {
		if u.Faction == f {
			continue
		}
		if first < 0 {
			first = i
		}
		if u.Light || u.MaxHealth == 1 {
			lights = append(lights, u.ID)
		}
	}
	if first < 0 {
		return "No enemy ships to strike."
	}
	if len(lights) > 0 {
		destroyed := 0
		for _, id := range lights[:min(2, len(lights))] {
			w.RemoveUnit(sys.ID, id)
			destroyed++
		}
		w.Stats.UnitsDestroyedByMissions += destroyed
		return fmt.Sprintf("Guerrilla strike destroys %d enemy ships!", destroyed)
	}
	u := &r.Space[first]
	u.Damage = min(u.Damage+1, u.MaxHealth-1)
	return fmt.Sprintf("Guerrilla strike damages %s!", u.Name)
}

func (e *Engine) subjugate(f content.Faction, sys *world.System) string {
	if len(e.w.Combatants(sys.ID, f, content.Ground)) == 0 {
		return "No ground forces to subjugate with."
	}
	sys.Loyalty = content.LoyaltyOf(f)
	sys.Subjugated = true
	return fmt.Sprintf("%s has been subjugated.", sys.Name)
}

func (e *Engine) buildTitan(f content.Faction, sys *world.System) string {
	w := e.w
	titan := e.cat.Basics[f].Titan
	if titan == "" {
		return "This faction cannot build a titan."
	}
	if w.TitanBuilt || e.queued(titan) {
		return "Titan already built or under construction."
	}
	if sys.Loyalty != content.LoyaltyOf(f) || !sys.Production {
		return "Cannot build here - need loyal system with production."
	}
	turns := e.cat.Rules.TitanBuildTurns
	w.Queue[f] = append(w.Queue[f], world.ProductionItem{UnitType: titan, System: sys.ID, TurnsLeft: turns})
	return fmt.Sprintf("Titan construction begins! (%d turns)", turns)
}

func (e *Engine) queued(unitType string) bool {
	for _, f := range content.Factions {
		for _, item := range e.w.Queue[f] {
			if item.UnitType == unitType {
				return true
			}
		}
	}
	return false
}

func (e *Engine) buildStructure(f content.Faction, sys *world.System) string {
	if sys.Loyalty != content.LoyaltyOf(f) || !sys.Production {
		return "Cannot build here - need loyal system with production."
	}
	t := e.cat.MustUnitType(e.cat.Basics[f].Structure)
	e.w.Spawn(sys.ID, t)
	return fmt.Sprintf("%s built at %s.", t.Name, sys.Name)
}

// capture is an opposed intel check against the first enemy leader present.
func (e *Engine) capture(f content.Faction, leader *world.Leader, sys *world.System) string {
	w := e.w
	enemies := w.LeadersAt(sys.ID, f.Opponent())
	if len(enemies) == 0 {
		return "No enemy leaders to capture here."
	}
	target := enemies[0]
	if leader.Skills.Intel < target.Skills.Intel {
		return fmt.Sprintf("Capture attempt failed - %s evaded.", target.Name)
	}
	target.Captured = true
	target.Location = ""
	target.OnMission = false
	w.Captured = append(w.Captured, target)
	w.Assignments[target.Faction] = removeAssignment(w.Assignments[target.Faction], target.ID)
	if f == content.Liberation {
		w.Stats.DomLeadersCaptured++
	}
	return fmt.Sprintf("%s has been captured!", target.Name)
}

func (e *Engine) logisticsMove(f content.Faction, sys *world.System) string {
	w := e.w
	adj := w.Adjacent(sys.ID)
	moved := 0
	for _, from := range adj[:min(2, len(adj))] {
		moved += e.moveAll(f, from, sys.ID)
	}
	return fmt.Sprintf("Supply lines move %d units to %s.", moved, sys.Name)
}

func (e *Engine) rapidMove(f content.Faction, sys *world.System) string {
	w := e.w
	adj := w.Adjacent(sys.ID)
	if len(adj) == 0 {
		return "No adjacent systems for rapid move."
	}
	dest := adj[0]
	moved := e.moveAll(f, sys.ID, dest)
	return fmt.Sprintf("Rapid mobilization moves %d units to %s.", moved, w.Systems[dest].Name)
}

// moveAll moves every mobile unit of f from one system to another.
func (e *Engine) moveAll(f content.Faction, from, to string) int {
	units := e.w.Mobile(from, f)
	for _, u := range units {
		e.w.MoveUnit(from, to, u.ID)
	}
	return len(units)
}

func (e *Engine) sabotage(f content.Faction) string {
	w := e.w
	enemy := f.Opponent()
	q := w.Queue[enemy]
	if len(q) == 0 {
		return "Nothing to sabotage."
	}
	removed := q[len(q)-1]
	w.Queue[enemy] = q[:len(q)-1]
	return fmt.Sprintf("Sabotaged %s production!", e.cat.MustUnitType(removed.UnitType).Name)
}

// covertOp names the next three probe cards in draw order.
func (e *Engine) covertOp() string {
	w := e.w
	if len(w.ProbeDeck) == 0 {
		return "No probe cards left to inspect."
	}
	var names []string
	for i := len(w.ProbeDeck) - 1; i >= 0 && len(names) < 3; i-- {
		names = append(names, w.Systems[w.ProbeDeck[i]].Name)
	}
	return fmt.Sprintf("Covert intel: next probes will check %s.", strings.Join(names, ", "))
}

func (e *Engine) uprising(f content.Faction, sys *world.System) string {
	if sys.Loyalty == content.LoyaltyOf(f.Opponent()) {
		return fmt.Sprintf("Cannot inspire uprising in a %s-loyal world.", f.Opponent().Title())
	}
	t := e.cat.MustUnitType(e.cat.Basics[f].Trooper)
	for i := 0; i < 2; i++ {
		e.w.Spawn(sys.ID, t)
	}
	return fmt.Sprintf("Uprising! 2 %ss rally at %s.", t.Name, sys.Name)
}

// relocateBase moves the hidden base and every Liberation unit there to a new
// eligible system, hiding it again.
func (e *Engine) relocateBase(f content.Faction) string {
	w := e.w
	if f != content.Liberation || w.Base == "" {
		return "Only the Liberation can relocate its base."
	}
	var candidates []string
	for _, id := range w.Order {
		s := w.Systems[id]
		if id != w.Base && s.Loyalty != content.LoyalDominion && e.cat.Rules.IsBaseRegion(s.Region) {
			candidates = append(candidates, id)
		}
	}
	next, ok := dice.Pick(e.src, candidates)
	if !ok {
		return "No valid relocation targets."
	}
	old := w.Base
	space, ground := w.UnitsOf(old, content.Liberation)
	for _, u := range append(space, ground...) {
		w.MoveUnit(old, next, u.ID)
	}
	w.Base = next
	w.BaseRevealed = false
	w.Systems[next].Loyalty = content.LoyalLiberation
	return "Base relocated to a new hidden location."
}

func (e *Engine) recruit(f content.Faction, leader *world.Leader) string {
	rules := e.cat.Rules
	name, ok := dice.Pick(e.src, rules.RecruitNames)
	if !ok {
		return "No one answers the call."
	}
	l := e.w.Recruit(f, name, rules.RecruitSkills, leader.Location)
	return fmt.Sprintf("%s joins the %s!", l.Name, f.Title())
}
