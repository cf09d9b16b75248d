package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

func loyalProduction(w *world.World, f content.Faction) int {
	return w.CountLoyal(content.LoyaltyOf(f), func(s *world.System) bool { return s.Production })
}

func TestProductionIsCappedPerFaction(t *testing.T) {
	e, _ := newGame(t, 9)
	e.w.Objectives, e.w.ObjectiveDeck = nil, nil
	before := census(e.w)
	dom, lib := e.TotalUnits(content.Dominion), e.TotalUnits(content.Liberation)
	libSites := loyalProduction(e.w, content.Liberation)

	passTurn(t, e)

	assert.Equal(t, dom+3, e.TotalUnits(content.Dominion))
	assert.Equal(t, lib+min(libSites, 2), e.TotalUnits(content.Liberation))

	// Every new Dominion unit is the basic unit of its system's first resource.
	perSystem := make(map[string]int)
	for _, id := range e.w.Order {
		space, ground := e.w.UnitsOf(id, content.Dominion)
		for _, u := range append(space, ground...) {
			if before[u.ID] == 0 {
				assert.Contains(t, []string{"dom_fighter", "dom_trooper"}, u.TypeID)
				perSystem[id]++
			}
		}
	}
	for id, n := range perSystem {
		assert.Equal(t, 1, n, id)
	}
}

func TestRefillHandDrawsFromDeck(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Hands[content.Dominion] = e.w.Hands[content.Dominion][:1]
	top := e.w.Decks[content.Dominion][5]

	e.refillHand(content.Dominion)
	hand := e.w.Hands[content.Dominion]
	require.Len(t, hand, 4)
	assert.Equal(t, top, hand[1])
	assert.Len(t, e.w.Decks[content.Dominion], 3)
}

func TestRefillHandRebuildsEmptyDeck(t *testing.T) {
	e, _ := newGame(t, 1)
	giveHand(t, e, content.Liberation, "lib_m1", "lib_m2")
	e.w.Decks[content.Liberation] = nil

	e.refillHand(content.Liberation)
	assert.Len(t, e.w.Hands[content.Liberation], 2)
	deck := e.w.Decks[content.Liberation]
	require.Len(t, deck, 8)
	for _, m := range deck {
		assert.NotContains(t, []string{"lib_m1", "lib_m2"}, m.ID)
	}
}

func objective(t *testing.T, e *Engine, id string) content.ObjectiveDef {
	t.Helper()
	for _, o := range e.cat.Objectives {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("no objective %s", id)
	return content.ObjectiveDef{}
}

// liberate makes n systems outside the core loyal to the Liberation.
func liberate(e *Engine, n int) {
	for _, id := range e.w.Order {
		if n == 0 {
			return
		}
		s := e.w.Systems[id]
		if s.Region == e.cat.Rules.CoreRegion {
			continue
		}
		if s.Loyalty != content.LoyalLiberation {
			s.Loyalty = content.LoyalLiberation
		}
		n--
	}
}

func TestObjectiveScoring(t *testing.T) {
	e, _ := newGame(t, 1)
	hearts := objective(t, e, "obj7")
	spirit := objective(t, e, "obj14")
	e.w.Objectives = []content.ObjectiveDef{hearts}
	e.w.ObjectiveDeck = []content.ObjectiveDef{spirit}
	liberate(e, 5)

	passTurn(t, e)

	assert.Equal(t, 28, e.w.Reputation)
	assert.Equal(t, []content.ObjectiveDef{hearts}, e.w.Completed)
	assert.Equal(t, []content.ObjectiveDef{spirit}, e.w.Objectives)
	assert.Empty(t, e.w.ObjectiveDeck)

	var logged bool
	for _, entry := range e.w.Log {
		if entry.Message == "Objective completed: Hearts and Minds (2 points)! Reputation now 28." {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestObjectiveChecks(t *testing.T) {
	tests := []struct {
		check content.Check
		set   func(e *Engine)
	}{
		{content.CheckLoyaltyOutsideCore3, func(e *Engine) { liberate(e, 3) }},
		{content.CheckWinGroundDefense, func(e *Engine) { e.w.Stats.GroundDefenseWins = 1 }},
		{content.CheckDestroyCapital, func(e *Engine) { e.w.Stats.CapitalShipsDestroyed = 1 }},
		{content.CheckLoyalty3Regions, func(e *Engine) {
			for _, id := range []string{"fern_haven", "rust_hollow", "deep_blue"} {
				e.w.Systems[id].Loyalty = content.LoyalLiberation
			}
		}},
		{content.CheckControl3Production, func(e *Engine) {
			for _, id := range []string{"sylvan_prime", "emerald_gate", "anvil_station"} {
				e.w.Systems[id].Loyalty = content.LoyalLiberation
			}
		}},
		{content.CheckWinSpaceVs3Plus, func(e *Engine) { e.w.Stats.SpaceWinsVs3Plus = 1 }},
		{content.CheckLoyalty5Systems, func(e *Engine) { liberate(e, 5) }},
		{content.CheckCaptureDomLeader, func(e *Engine) { e.w.Stats.DomLeadersCaptured = 1 }},
		{content.CheckLoyaltyCoreWorld, func(e *Engine) { e.w.Systems["aurum_spire"].Loyalty = content.LoyalLiberation }},
		{content.CheckControl4Regions, func(e *Engine) {
			for _, id := range []string{"fern_haven", "rust_hollow", "deep_blue", "ember_falls"} {
				e.w.Systems[id].Loyalty = content.LoyalLiberation
			}
		}},
		{content.CheckDestroyTitan, func(e *Engine) { e.w.TitanDestroyed = true }},
		{content.CheckLoyalty8Systems, func(e *Engine) { liberate(e, 8) }},
		{content.CheckDestroy5UnitsBattle, func(e *Engine) { e.w.Stats.UnitsDestroyedInBattle = 5 }},
		{content.CheckSurvive10Turns, func(e *Engine) { e.w.Turn = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.check.String(), func(t *testing.T) {
			e, _ := newGame(t, 1)
			// Start from a single Liberation world: the base.
			for _, id := range e.w.Order {
				if id != e.w.Base && e.w.Systems[id].Loyalty == content.LoyalLiberation {
					e.w.Systems[id].Loyalty = content.Neutral
				}
			}
			assert.False(t, e.Met(tt.check))
			tt.set(e)
			assert.True(t, e.Met(tt.check))
		})
	}
}

func TestSurviveTenTurnsNeedsHiddenBase(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Turn = 12
	e.w.BaseRevealed = true
	assert.False(t, e.Met(content.CheckSurvive10Turns))
}

func TestTurnLimitOnlyAtRefresh(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Turn = 14
	assert.False(t, e.checkWin(false))
	assert.False(t, e.w.GameOver)
	assert.True(t, e.checkWin(true))
	assert.Equal(t, content.Dominion, e.w.Winner)
}

func TestRefreshClearsLeaderFlags(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Objectives, e.w.ObjectiveDeck = nil, nil
	for _, f := range content.Factions {
		for _, l := range e.w.Leaders[f] {
			l.Exhausted = true
		}
	}
	passTurn(t, e)
	for _, f := range content.Factions {
		for _, l := range e.w.Leaders[f] {
			assert.False(t, l.Exhausted, l.ID)
			assert.False(t, l.OnMission, l.ID)
		}
	}
	assert.Empty(t, e.w.Assigned)
	assert.Empty(t, e.w.AssignCount)
	assert.Equal(t, content.Liberation, e.w.Active)
}
