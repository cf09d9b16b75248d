package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// effect runs the mission with id for the leader at target, bypassing the
// phase machine.
func effect(t *testing.T, e *Engine, leaderID, missionID, target string) string {
	t.Helper()
	l := leader(t, e, leaderID)
	m, ok := e.cat.Mission(l.Faction, missionID)
	require.True(t, ok, missionID)
	return e.runEffect(l.Faction, l, m, target)
}

// nonBase returns n probe-deck systems other than the base.
func nonBase(e *Engine, n int) []string {
	var out []string
	for _, id := range e.w.Order {
		if id != e.w.Base && e.w.Systems[id].Loyalty != content.LoyalDominion && len(out) < n {
			out = append(out, id)
		}
	}
	return out
}

func TestProbeNeverRevealsOtherSystems(t *testing.T) {
	e, _ := newGame(t, 2)
	others := nonBase(e, 20)
	e.w.ProbeDeck = append([]string(nil), others...)

	for range others {
		msg := effect(t, e, "dom_l1", "dom_m1", "throne_world")
		assert.Contains(t, msg, "no base found")
		assert.False(t, e.w.BaseRevealed)
	}
	assert.Empty(t, e.w.ProbeDeck)
	assert.Len(t, e.w.ProbeDiscards, len(others))
	for _, id := range others {
		assert.True(t, e.w.Systems[id].Probed, id)
	}
	assert.Equal(t, "No more probe cards.", effect(t, e, "dom_l1", "dom_m1", "throne_world"))
}

func TestProbeRevealsBase(t *testing.T) {
	e, _ := newGame(t, 2)
	e.w.ProbeDeck = []string{e.w.Base}

	msg := effect(t, e, "dom_l1", "dom_m1", "throne_world")
	assert.Contains(t, msg, "BASE FOUND!")
	assert.True(t, e.w.BaseRevealed)
	assert.True(t, e.w.Systems[e.w.Base].Probed)
}

func TestIntelSweepStopsAtBase(t *testing.T) {
	e, _ := newGame(t, 2)
	others := nonBase(e, 3)
	// The deck is drawn from the end: others[2], then the base.
	e.w.ProbeDeck = []string{others[0], others[1], e.w.Base, others[2]}

	msg := effect(t, e, "dom_l3", "dom_m3", "nexus_prime")
	assert.Contains(t, msg, "BASE FOUND!")
	assert.True(t, e.w.BaseRevealed)
	assert.Equal(t, []string{others[0], others[1]}, e.w.ProbeDeck)
	assert.Equal(t, []string{others[2], e.w.Base}, e.w.ProbeDiscards)

	e.w.BaseRevealed = false
	msg = effect(t, e, "dom_l3", "dom_m3", "nexus_prime")
	assert.Contains(t, msg, "no base found")
	assert.False(t, e.w.BaseRevealed)
	assert.Empty(t, e.w.ProbeDeck)
}

func TestSway(t *testing.T) {
	tests := []struct {
		name    string
		leader  string
		mission string
		from    content.Loyalty
		want    content.Loyalty
	}{
		{"dominion claims neutral", "dom_l5", "dom_m2", content.Neutral, content.LoyalDominion},
		{"dominion weakens liberation", "dom_l5", "dom_m2", content.LoyalLiberation, content.Neutral},
		{"dominion keeps dominion", "dom_l5", "dom_m2", content.LoyalDominion, content.LoyalDominion},
		{"liberation claims neutral", "lib_l5", "lib_m2", content.Neutral, content.LoyalLiberation},
		{"liberation weakens dominion", "lib_l5", "lib_m2", content.LoyalDominion, content.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newGame(t, 1)
			e.w.Systems["fern_haven"].Loyalty = tt.from
			effect(t, e, tt.leader, tt.mission, "fern_haven")
			assert.Equal(t, tt.want, e.w.Systems["fern_haven"].Loyalty)
		})
	}
}

func TestPropagandaShiftsFirstTwoNeutrals(t *testing.T) {
	e, _ := newGame(t, 1)
	msg := effect(t, e, "dom_l5", "dom_m10", "throne_world")
	assert.Equal(t, "Propaganda shifts 2 systems to Dominion loyalty.", msg)
	assert.Equal(t, content.LoyalDominion, e.w.Systems["sylvan_prime"].Loyalty)
	assert.Equal(t, content.LoyalDominion, e.w.Systems["fern_haven"].Loyalty)
	assert.Equal(t, content.Neutral, e.w.Systems["emerald_gate"].Loyalty)
}

func TestBombardment(t *testing.T) {
	e, _ := newGame(t, 1)
	base := e.w.Base
	ground := e.w.Rosters[base].Ground
	require.Len(t, ground, 6)
	last, second := ground[5].ID, ground[4].ID

	msg := effect(t, e, "dom_l2", "dom_m4", base)
	assert.Equal(t, "Bombardment destroys 2 enemy ground units.", msg)
	assert.Len(t, e.w.Rosters[base].Ground, 4)
	_, ok := e.w.FindUnit(base, last)
	assert.False(t, ok)
	_, ok = e.w.FindUnit(base, second)
	assert.False(t, ok)
	assert.Equal(t, 2, e.w.Stats.UnitsDestroyedByMissions)
	assert.Zero(t, e.w.Stats.UnitsDestroyedInBattle)

	msg = effect(t, e, "dom_l2", "dom_m4", "deep_blue")
	assert.Equal(t, "Bombardment destroys 0 enemy ground units.", msg)
}

func TestHitAndRun(t *testing.T) {
	e, _ := newGame(t, 1)
	first := e.w.Rosters["throne_world"].Space[0]

	msg := effect(t, e, "lib_l1", "lib_m4", "throne_world")
	assert.Equal(t, "Hit and run! Destroyed enemy Dreadnought.", msg)
	_, ok := e.w.FindUnit("throne_world", first.ID)
	assert.False(t, ok)
	assert.Equal(t, "No enemy ships to attack.", effect(t, e, "lib_l1", "lib_m4", "deep_blue"))
}

func TestGuerrilla(t *testing.T) {
	e, _ := newGame(t, 1)

	msg := effect(t, e, "lib_l1", "lib_m9", "throne_world")
	assert.Equal(t, "Guerrilla strike destroys 2 enemy ships!", msg)
	var fighters int
	for _, u := range e.w.Rosters["throne_world"].Space {
		if u.TypeID == "dom_fighter" {
			fighters++
		}
	}
	assert.Equal(t, 1, fighters)

	// Aurum Spire holds a single warship: damaged, never destroyed.
	for i := 0; i < 3; i++ {
		msg = effect(t, e, "lib_l1", "lib_m9", "aurum_spire")
		assert.Equal(t, "Guerrilla strike damages Warship!", msg)
	}
	ship := e.w.Rosters["aurum_spire"].Space[0]
	assert.Equal(t, 1, ship.Damage)
	assert.False(t, ship.Destroyed())

	assert.Equal(t, "No enemy ships to strike.", effect(t, e, "lib_l1", "lib_m9", "deep_blue"))
}

func TestSubjugate(t *testing.T) {
	e, _ := newGame(t, 1)
	sys := e.w.Systems["sylvan_prime"]

	assert.Equal(t, "No ground forces to subjugate with.", effect(t, e, "dom_l1", "dom_m5", "sylvan_prime"))
	assert.Equal(t, content.Neutral, sys.Loyalty)

	e.w.Spawn("sylvan_prime", e.cat.MustUnitType("dom_shield"))
	assert.Equal(t, "No ground forces to subjugate with.", effect(t, e, "dom_l1", "dom_m5", "sylvan_prime"))

	e.w.Spawn("sylvan_prime", e.cat.MustUnitType("dom_trooper"))
	assert.Equal(t, "Sylvan Prime has been subjugated.", effect(t, e, "dom_l1", "dom_m5", "sylvan_prime"))
	assert.Equal(t, content.LoyalDominion, sys.Loyalty)
	assert.True(t, sys.Subjugated)
}

func TestBuildTitan(t *testing.T) {
	e, _ := newGame(t, 1)

	assert.Contains(t, effect(t, e, "dom_l4", "dom_m6", "sylvan_prime"), "Cannot build here")
	assert.Empty(t, e.w.Queue[content.Dominion])

	msg := effect(t, e, "dom_l4", "dom_m6", "throne_world")
	assert.Equal(t, "Titan construction begins! (3 turns)", msg)
	require.Len(t, e.w.Queue[content.Dominion], 1)
	assert.Equal(t, world.ProductionItem{UnitType: "dom_super", System: "throne_world", TurnsLeft: 3}, e.w.Queue[content.Dominion][0])

	assert.Equal(t, "Titan already built or under construction.", effect(t, e, "dom_l4", "dom_m6", "throne_world"))
	assert.Len(t, e.w.Queue[content.Dominion], 1)
}

func TestTitanDeploysAfterCountdown(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Objectives, e.w.ObjectiveDeck = nil, nil
	effect(t, e, "dom_l4", "dom_m6", "throne_world")

	for turn := 1; turn <= 3; turn++ {
		assert.False(t, e.w.TitanBuilt, "turn %d", turn)
		passTurn(t, e)
	}
	assert.True(t, e.w.TitanBuilt)
	assert.Empty(t, e.w.Queue[content.Dominion])
	var titans int
	for _, u := range e.w.Rosters["throne_world"].Space {
		if u.TypeID == "dom_super" {
			titans++
		}
	}
	assert.Equal(t, 1, titans)
	assert.Equal(t, "Titan already built or under construction.", effect(t, e, "dom_l4", "dom_m6", "throne_world"))
}

func TestBuildStructure(t *testing.T) {
	e, _ := newGame(t, 1)

	assert.Contains(t, effect(t, e, "dom_l4", "dom_m9", "sylvan_prime"), "Cannot build here")
	assert.Empty(t, e.w.Rosters["sylvan_prime"].Ground)

	msg := effect(t, e, "dom_l4", "dom_m9", "citadel_reach")
	assert.Equal(t, "Shield Array built at Citadel Reach.", msg)
	ground := e.w.Rosters["citadel_reach"].Ground
	assert.Equal(t, "dom_shield", ground[len(ground)-1].TypeID)
}

func TestCapture(t *testing.T) {
	e, _ := newGame(t, 1)
	base := e.w.Base

	// Director Sable (intel 3) against Commander Astra (intel 1).
	astra := leader(t, e, "lib_l1")
	astra.OnMission = true
	m, _ := e.cat.Mission(content.Liberation, "lib_m2")
	e.w.Assignments[content.Liberation] = []world.Assignment{{Leader: astra, Mission: m, Target: base}}

	msg := effect(t, e, "dom_l3", "dom_m7", base)
	assert.Equal(t, "Commander Astra has been captured!", msg)
	assert.True(t, astra.Captured)
	assert.Empty(t, astra.Location)
	assert.False(t, astra.OnMission)
	assert.Empty(t, e.w.Assignments[content.Liberation])
	assert.Equal(t, []*world.Leader{astra}, e.w.Captured)
	assert.Zero(t, e.w.Stats.DomLeadersCaptured)
	assert.Len(t, e.LeadersIn(base, content.Liberation), 5)

	// Sage Orion (intel 2) is outmatched by Director Sable at Nexus Prime.
	orion := leader(t, e, "lib_l2")
	m7, _ := e.cat.Mission(content.Dominion, "dom_m7")
	msg = e.runEffect(content.Liberation, orion, m7, "nexus_prime")
	assert.Equal(t, "Capture attempt failed - Director Sable evaded.", msg)
	assert.False(t, leader(t, e, "dom_l3").Captured)

	// Scout Vex (intel 3) takes Grand Regent Voss (intel 1).
	vex := leader(t, e, "lib_l3")
	msg = e.runEffect(content.Liberation, vex, m7, "throne_world")
	assert.Equal(t, "Grand Regent Voss has been captured!", msg)
	assert.Equal(t, 1, e.w.Stats.DomLeadersCaptured)
	assert.True(t, e.Met(content.CheckCaptureDomLeader))

	assert.Equal(t, "No enemy leaders to capture here.", e.runEffect(content.Liberation, vex, m7, "deep_blue"))
}

func TestLogisticsMove(t *testing.T) {
	e, _ := newGame(t, 1)
	before := census(e.w)

	msg := effect(t, e, "dom_l1", "dom_m8", "nexus_prime")
	assert.Equal(t, "Supply lines move 12 units to Nexus Prime.", msg)
	assert.Empty(t, e.UnitsOf("throne_world", content.Dominion))
	assert.Empty(t, e.UnitsOf("aurum_spire", content.Dominion))
	assert.Len(t, e.UnitsOf("nexus_prime", content.Dominion), 17)
	assert.Len(t, census(e.w), len(before))
}

func TestRapidMove(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.Spawn("throne_world", e.cat.MustUnitType("lib_trooper"))
	e.w.Spawn("throne_world", e.cat.MustUnitType("lib_shield"))

	msg := effect(t, e, "lib_l4", "lib_m8", "throne_world")
	assert.Equal(t, "Rapid mobilization moves 1 units to Nexus Prime.", msg)
	assert.Len(t, e.UnitsOf("nexus_prime", content.Liberation), 1)
	// Structures stay behind.
	left := e.UnitsOf("throne_world", content.Liberation)
	require.Len(t, left, 1)
	assert.Equal(t, "lib_shield", left[0].TypeID)
}

func TestSabotage(t *testing.T) {
	e, _ := newGame(t, 1)
	assert.Equal(t, "Nothing to sabotage.", effect(t, e, "lib_l3", "lib_m1", "throne_world"))

	e.w.Queue[content.Dominion] = []world.ProductionItem{
		{UnitType: "dom_cruiser", System: "throne_world", TurnsLeft: 2},
		{UnitType: "dom_super", System: "throne_world", TurnsLeft: 3},
	}
	assert.Equal(t, "Sabotaged Titan production!", effect(t, e, "lib_l3", "lib_m1", "throne_world"))
	require.Len(t, e.w.Queue[content.Dominion], 1)
	assert.Equal(t, "dom_cruiser", e.w.Queue[content.Dominion][0].UnitType)
}

func TestCovertOpPeeksWithoutDrawing(t *testing.T) {
	e, _ := newGame(t, 1)
	e.w.ProbeDeck = []string{"fern_haven", "sylvan_prime", "deep_blue", "wave_crest"}

	msg := effect(t, e, "lib_l3", "lib_m3", e.w.Base)
	assert.Equal(t, "Covert intel: next probes will check Wave Crest, Deep Blue, Sylvan Prime.", msg)
	assert.Len(t, e.w.ProbeDeck, 4)
	assert.False(t, e.w.Systems["wave_crest"].Probed)
}

func TestUprising(t *testing.T) {
	e, _ := newGame(t, 1)

	msg := effect(t, e, "lib_l5", "lib_m5", "fern_haven")
	assert.Equal(t, "Uprising! 2 Volunteers rally at Fern Haven.", msg)
	assert.Len(t, e.UnitsOf("fern_haven", content.Liberation), 2)

	msg = effect(t, e, "lib_l5", "lib_m5", "throne_world")
	assert.Equal(t, "Cannot inspire uprising in a Dominion-loyal world.", msg)
	assert.Empty(t, e.UnitsOf("throne_world", content.Liberation))
}

func TestRelocateBase(t *testing.T) {
	e, _ := newGame(t, 1)
	old := e.w.Base
	e.w.BaseRevealed = true
	libBefore := e.TotalUnits(content.Liberation)

	msg := effect(t, e, "lib_l4", "lib_m6", old)
	assert.Equal(t, "Base relocated to a new hidden location.", msg)
	assert.NotEqual(t, old, e.w.Base)
	assert.False(t, e.w.BaseRevealed)
	assert.True(t, e.cat.Rules.IsBaseRegion(e.w.Systems[e.w.Base].Region))
	assert.Equal(t, content.LoyalLiberation, e.w.Systems[e.w.Base].Loyalty)
	assert.Empty(t, e.UnitsOf(old, content.Liberation))
	assert.Len(t, e.UnitsOf(e.w.Base, content.Liberation), libBefore)

	dom := leader(t, e, "dom_l1")
	m, _ := e.cat.Mission(content.Liberation, "lib_m6")
	assert.Equal(t, "Only the Liberation can relocate its base.", e.runEffect(content.Dominion, dom, m, "throne_world"))
}

func TestUnknownTargetChangesNothing(t *testing.T) {
	e, _ := newGame(t, 1)
	before := e.Digest()
	assert.Equal(t, "No valid target.", effect(t, e, "dom_l2", "dom_m4", "nowhere"))
	assert.Equal(t, before, e.Digest())
}
