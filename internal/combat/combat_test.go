package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/world"
)

// deep_blue starts neutral, empty and without leaders.
const arena = "deep_blue"

func testWorld(t *testing.T) *world.World {
	t.Helper()
	cat, err := content.Default()
	require.NoError(t, err)
	w := world.New(cat)
	for _, f := range content.Factions {
		w.Cards[f] = append([]content.Card(nil), cat.Cards[f]...)
	}
	return w
}

func spawn(t *testing.T, w *world.World, system string, types ...string) []world.Unit {
	t.Helper()
	var out []world.Unit
	for _, id := range types {
		out = append(out, w.Spawn(system, w.Catalog.MustUnitType(id)))
	}
	return out
}

func units(healths ...int) []world.Unit {
	out := make([]world.Unit, len(healths))
	for i, h := range healths {
		out[i] = world.Unit{ID: string(rune('a' + i)), MaxHealth: h}
	}
	return out
}

func TestApplyDamageOrdering(t *testing.T) {
	list := units(1, 2, 3)
	lost := ApplyDamage(list, 2, 1)

	require.Len(t, lost, 1)
	assert.Equal(t, "a", lost[0].ID)
	assert.Equal(t, 0, list[1].Damage)
	assert.Equal(t, 1, list[2].Damage)
}

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name    string
		healths []int
		hits    int
		crits   int
		damage  []int
		lost    int
	}{
		{"hits go to the weakest first", []int{2, 2}, 2, 0, []int{2, 0}, 1},
		{"spare crits go to the weakest", []int{3, 1}, 3, 3, []int{2, 1}, 1},
		{"one crit per unit then weakest", []int{3, 2, 2}, 4, 4, []int{1, 2, 1}, 1},
		{"crits capped by hits", []int{3, 2}, 1, 2, []int{1, 0}, 0},
		{"overflow is wasted", []int{1}, 5, 0, []int{1}, 1},
		{"no hits", []int{2}, 0, 0, []int{0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := units(tt.healths...)
			lost := ApplyDamage(list, tt.hits, tt.crits)
			assert.Len(t, lost, tt.lost)
			for i, want := range tt.damage {
				assert.Equal(t, want, list[i].Damage, "unit %d", i)
			}
		})
	}
}

func TestInitRequiresOpposingForces(t *testing.T) {
	w := testWorld(t)
	e := New(w, dice.NewScripted())

	_, err := e.Init(arena)
	assert.ErrorIs(t, err, ErrNoOpposingForces)

	_, err = e.Init("nowhere")
	assert.ErrorIs(t, err, ErrUnknownSystem)

	spawn(t, w, arena, "dom_trooper", "lib_shield")
	_, err = e.Init(arena)
	assert.ErrorIs(t, err, ErrNoOpposingForces)

	spawn(t, w, arena, "lib_trooper")
	b, err := e.Init(arena)
	require.NoError(t, err)
	assert.Equal(t, StatusGround, b.Status)
	assert.False(t, b.HasSpace)

	_, err = e.Init(arena)
	assert.ErrorIs(t, err, ErrCombatActive)
}

func TestGroundRoundDestroysOneArmor(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_armor", "dom_armor", "lib_special")
	// Dominion red dice miss twice, Liberation black dice hit twice.
	e := New(w, dice.NewScripted(4, 4, 0, 1))

	_, err := e.Init(arena)
	require.NoError(t, err)
	res, err := e.Round()
	require.NoError(t, err)

	assert.Equal(t, 0, res.Sides[content.Dominion].Final)
	assert.Equal(t, 2, res.Sides[content.Liberation].Final)
	assert.Len(t, res.Sides[content.Dominion].Lost, 1)
	assert.False(t, res.DomainDone)
	assert.Len(t, e.Active().Sides[content.Dominion].Ground, 1)
	assert.Equal(t, 2, e.Active().Round)
	assert.Equal(t, 1, w.Stats.UnitsDestroyedInBattle)
}

func TestCombatFinalizesIntoRosters(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_trooper", "dom_armor")
	spawn(t, w, arena, "lib_trooper", "lib_shield")
	before := w.TotalUnits(content.Dominion) + w.TotalUnits(content.Liberation)

	// Dominion: red hit, black hit. Liberation: black miss.
	e := New(w, dice.NewScripted(0, 0, 5))
	_, err := e.Init(arena)
	require.NoError(t, err)
	res, err := e.Round()
	require.NoError(t, err)

	require.True(t, res.Over())
	assert.Equal(t, content.Dominion, res.Winner)
	assert.Nil(t, e.Active())

	after := w.TotalUnits(content.Dominion) + w.TotalUnits(content.Liberation)
	assert.Equal(t, before-res.Outcome.Destroyed, after)

	_, ground := w.UnitsOf(arena, content.Liberation)
	require.Len(t, ground, 1)
	assert.Equal(t, "lib_shield", ground[0].TypeID)
	for _, u := range w.Rosters[arena].Ground {
		assert.Zero(t, u.Damage)
	}
	assert.Zero(t, w.Stats.GroundDefenseWins)
}

func TestSpaceThenGround(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_fighter", "dom_fighter", "dom_fighter", "dom_trooper")
	spawn(t, w, arena, "lib_frigate", "lib_trooper")

	// Space: Dominion 3 black misses; Liberation red hit, black crit.
	// That is 2 final hits with one crit: two fighters die, one survives.
	src := dice.NewScripted(5, 5, 5, 0, 2)
	e := New(w, src)
	b, err := e.Init(arena)
	require.NoError(t, err)
	assert.Equal(t, StatusSpace, b.Status)
	assert.True(t, b.HasGround)

	res, err := e.Round()
	require.NoError(t, err)
	assert.False(t, res.DomainDone)
	assert.Len(t, b.Sides[content.Dominion].Space, 1)

	// Dominion black miss; Liberation red hit, black miss.
	src.Push(5, 0, 5)
	res, err = e.Round()
	require.NoError(t, err)
	require.True(t, res.DomainDone)
	assert.Equal(t, content.Liberation, res.Winner)
	assert.Equal(t, content.Ground, res.Next)
	assert.Equal(t, StatusGround, b.Status)
	assert.Equal(t, 1, b.Round)
	assert.Equal(t, 1, w.Stats.SpaceWinsVs3Plus)

	// Ground: Dominion black miss; Liberation black hit.
	src.Push(5, 0)
	res, err = e.Round()
	require.NoError(t, err)
	require.True(t, res.Over())
	assert.Equal(t, content.Liberation, res.Winner)
	assert.Equal(t, 1, w.Stats.GroundDefenseWins)
	assert.Equal(t, 4, w.Stats.UnitsDestroyedInBattle)
	assert.Equal(t, 0, w.TotalUnits(content.Dominion))
}

func TestCardRules(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_trooper", "lib_trooper")
	e := New(w, dice.NewScripted())

	assert.ErrorIs(t, e.PlayCard(content.Dominion, "dac3"), ErrNoActiveCombat)

	_, err := e.Init(arena)
	require.NoError(t, err)

	assert.ErrorIs(t, e.PlayCard(content.Dominion, "dac1"), ErrCardWrongDomain)
	assert.ErrorIs(t, e.PlayCard(content.Dominion, "lac4"), ErrUnknownCard)
	assert.ErrorIs(t, e.PlayCard(content.Faction("pirates"), "dac3"), ErrInvalidFaction)
	require.NoError(t, e.PlayCard(content.Dominion, "dac3"))
	assert.ErrorIs(t, e.PlayCard(content.Dominion, "dac4"), ErrCardAlreadyPlayed)

	ids := []string{}
	for _, c := range e.Available(content.Liberation) {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"lac3", "lac4", "lac6"}, ids)
}

func TestBlockAndPierce(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_assault", "lib_armor", "lib_armor")
	e := New(w, dice.NewScripted())
	_, err := e.Init(arena)
	require.NoError(t, err)

	require.NoError(t, e.PlayCard(content.Dominion, "dac4"))
	require.NoError(t, e.PlayCard(content.Liberation, "lac3"))

	// Dominion: red miss, black miss. Liberation: red x2 hit, black x2 hit.
	e.src = dice.NewScripted(4, 5, 0, 0, 0, 0)
	res, err := e.Round()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Sides[content.Liberation].Hits)
	assert.Equal(t, 0, res.Sides[content.Liberation].Blocked)
	assert.Equal(t, 4, res.Sides[content.Liberation].Final)
	assert.True(t, res.Over())
	assert.Equal(t, content.Liberation, res.Winner)
}

func TestDoubleHitsAndSelfDamage(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_capital")
	spawn(t, w, arena, "lib_fighter", "lib_corvette")
	e := New(w, dice.NewScripted())
	_, err := e.Init(arena)
	require.NoError(t, err)
	require.NoError(t, e.PlayCard(content.Liberation, "lac5"))

	// Dominion: red miss x2. Liberation: corvette red hit, fighter black miss.
	e.src = dice.NewScripted(4, 4, 0, 5)
	res, err := e.Round()
	require.NoError(t, err)

	lib := res.Sides[content.Liberation]
	assert.Equal(t, 2, lib.Final)
	require.Len(t, lib.Lost, 1)
	assert.Equal(t, "lib_fighter", lib.Lost[0].TypeID)
	assert.Equal(t, 2, e.Active().Sides[content.Dominion].Space[0].Damage)
}

func TestDirectHitLight(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_cruiser")
	spawn(t, w, arena, "lib_fighter", "lib_corvette")
	e := New(w, dice.NewScripted())
	_, err := e.Init(arena)
	require.NoError(t, err)
	require.NoError(t, e.PlayCard(content.Dominion, "dac5"))

	// Everybody misses.
	e.src = dice.NewScripted(4, 4, 5)
	res, err := e.Round()
	require.NoError(t, err)
	require.Len(t, res.Sides[content.Liberation].Lost, 1)
	assert.Equal(t, "lib_fighter", res.Sides[content.Liberation].Lost[0].TypeID)
}

func TestCapitalAndTitanStats(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_super")
	titan := w.Rosters[arena].Space[0]
	w.Rosters[arena].Space[0].Damage = titan.MaxHealth - 1
	spawn(t, w, arena, "lib_corvette")

	// Dominion: red miss x3. Liberation: red hit.
	e := New(w, dice.NewScripted(4, 4, 4, 0))
	_, err := e.Init(arena)
	require.NoError(t, err)
	res, err := e.Round()
	require.NoError(t, err)

	require.True(t, res.Over())
	assert.True(t, w.TitanDestroyed)
	assert.Equal(t, 1, w.Stats.CapitalShipsDestroyed)
	assert.Zero(t, w.Stats.SpaceWinsVs3Plus)
}

func TestLeaderBonus(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_trooper", "lib_trooper")
	krath, _ := w.Leader(content.Dominion, "dom_l2")
	krath.Location = arena

	e := New(w, dice.NewScripted())
	_, err := e.Init(arena)
	require.NoError(t, err)
	res, err := e.Round()
	require.NoError(t, err)
	// trooper black die plus combat 3 / 2 on ground
	assert.Len(t, res.Sides[content.Dominion].Dice, 2)
	assert.Equal(t, dice.Black, res.Sides[content.Dominion].Dice[1].Color)
}

func TestRetreat(t *testing.T) {
	w := testWorld(t)
	spawn(t, w, arena, "dom_trooper", "lib_trooper")
	e := New(w, dice.NewScripted())

	_, err := e.Retreat(content.Liberation)
	assert.ErrorIs(t, err, ErrNoActiveCombat)

	_, err = e.Init(arena)
	require.NoError(t, err)
	out, err := e.Retreat(content.Liberation)
	require.NoError(t, err)
	assert.Equal(t, content.Liberation, out.Retreated)
	assert.Empty(t, out.Winner)
	assert.Nil(t, e.Active())
	assert.Len(t, w.Rosters[arena].Ground, 2)
}
