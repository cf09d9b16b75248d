package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 14, c.Rules.MaxTurns)
	assert.Equal(t, 30, c.Rules.StartingReputation)
	assert.Equal(t, Liberation, c.Rules.FirstPlayer)
	assert.Equal(t, 3, c.Rules.BuildCaps[Dominion])
	assert.Equal(t, 2, c.Rules.BuildCaps[Liberation])

	assert.Len(t, c.Systems, 32)
	assert.Len(t, c.Regions, 8)
	assert.Len(t, c.UnitTypes, 15)
	assert.Len(t, c.Objectives, 14)
	for _, f := range Factions {
		assert.Len(t, c.Leaders[f], 6, "leaders of %s", f)
		assert.Len(t, c.Missions[f], 10, "missions of %s", f)
		assert.Len(t, c.Cards[f], 6, "cards of %s", f)
	}
}

func TestUnitTypeLookup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	titan, err := c.UnitType("dom_super")
	require.NoError(t, err)
	assert.Equal(t, 4, titan.Health)
	assert.Equal(t, 3, titan.Attack.Red)
	assert.True(t, titan.Unique)
	assert.True(t, titan.Capital)

	shield := c.MustUnitType("lib_shield")
	assert.True(t, shield.IsStructure())

	_, err = c.UnitType("dom_walker")
	assert.True(t, errors.Is(err, ErrUnknownUnitType))
	assert.Panics(t, func() { c.MustUnitType("dom_walker") })

	_, err = c.System("nowhere")
	assert.True(t, errors.Is(err, ErrUnknownSystem))
}

func TestMissionEffectsDecoded(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		faction    Faction
		id         string
		effect     Effect
		repeatable bool
	}{
		{Dominion, "dom_m1", EffectProbe, true},
		{Dominion, "dom_m6", EffectBuildTitan, false},
		{Liberation, "lib_m6", EffectRelocateBase, false},
		{Liberation, "lib_m7", EffectRecruit, false},
		{Liberation, "lib_m10", EffectBuildStructure, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, ok := c.Mission(tt.faction, tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.effect, m.Effect)
			assert.Equal(t, tt.repeatable, m.Repeatable)
		})
	}
}

func TestParseRejectsUnknownTags(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"effect", `
rules: {first_player: dominion}
missions:
  dominion:
    - {id: m, name: M, skill: intel, min_skill: 1, effect: teleport}
`},
		{"check", `
rules: {first_player: dominion}
objectives:
  - {id: o, name: O, points: 1, tier: 1, check: win_everything}
`},
		{"connection", `
rules: {first_player: dominion}
systems:
  - {id: a, name: A, region: core, loyalty: neutral}
connections:
  - [a, b]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Systems, 32)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFactionHelpers(t *testing.T) {
	assert.Equal(t, Liberation, Dominion.Opponent())
	assert.Equal(t, Dominion, Liberation.Opponent())
	assert.False(t, Faction("pirates").Valid())
	assert.Equal(t, LoyalLiberation, LoyaltyOf(Liberation))

	s := Skills{Diplomacy: 1, Intel: 2, Combat: 3, Logistics: 4}
	assert.Equal(t, 3, s.Get(Combat))
	assert.Equal(t, 0, s.Get(Skill("piloting")))

	e, err := ParseEffect("covert_op")
	require.NoError(t, err)
	assert.Equal(t, "covert_op", e.String())
}
