package engine

import (
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// scoreObjectives completes every face-up objective whose check holds,
// lowering reputation and drawing replacements.
func (e *Engine) scoreObjectives() {
	w := e.w
	var done []content.ObjectiveDef
	for _, obj := range w.Objectives {
		if e.Met(obj.Check) {
			done = append(done, obj)
		}
	}
	for _, obj := range done {
		for i, o := range w.Objectives {
			if o.ID == obj.ID {
				w.Objectives = append(w.Objectives[:i:i], w.Objectives[i+1:]...)
				break
			}
		}
		w.Completed = append(w.Completed, obj)
		w.Reputation -= obj.Points
		e.logf("Objective completed: %s (%d points)! Reputation now %d.", obj.Name, obj.Points, w.Reputation)
		if n := len(w.ObjectiveDeck); n > 0 {
			w.Objectives = append(w.Objectives, w.ObjectiveDeck[n-1])
			w.ObjectiveDeck = w.ObjectiveDeck[:n-1]
		}
	}
}

// Met evaluates an objective check against the current state.
func (e *Engine) Met(c content.Check) bool {
	w := e.w
	lib := content.LoyalLiberation
	core := e.cat.Rules.CoreRegion
	switch c {
	case content.CheckLoyaltyOutsideCore3:
		return w.CountLoyal(lib, func(s *world.System) bool { return s.Region != core }) >= 3
	case content.CheckWinGroundDefense:
		return w.Stats.GroundDefenseWins > 0
	case content.CheckDestroyCapital:
		return w.Stats.CapitalShipsDestroyed > 0
	case content.CheckLoyalty3Regions:
		return w.LoyalRegions(lib) >= 3
	case content.CheckControl3Production:
		return w.CountLoyal(lib, func(s *world.System) bool { return s.Production }) >= 3
	case content.CheckWinSpaceVs3Plus:
		return w.Stats.SpaceWinsVs3Plus > 0
	case content.CheckLoyalty5Systems:
		return w.CountLoyal(lib, nil) >= 5
	case content.CheckCaptureDomLeader:
		return w.Stats.DomLeadersCaptured > 0
	case content.CheckLoyaltyCoreWorld:
		return w.CountLoyal(lib, func(s *world.System) bool { return s.Region == core }) > 0
	case content.CheckControl4Regions:
		return w.LoyalRegions(lib) >= 4
	case content.CheckDestroyTitan:
		return w.TitanDestroyed
	case content.CheckLoyalty8Systems:
		return w.CountLoyal(lib, nil) >= 8
	case content.CheckDestroy5UnitsBattle:
		return w.Stats.UnitsDestroyedInBattle >= 5
	case content.CheckSurvive10Turns:
		return w.Turn >= 10 && !w.BaseRevealed
	}
	return false
}
