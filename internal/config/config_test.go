package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	Defaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, content.Dominion, cfg.AI.Faction)
	assert.Equal(t, 800*time.Millisecond, cfg.AI.Delay)
	assert.Equal(t, ai.DefaultFormula, cfg.AI.Formula)
	assert.Equal(t, ai.DefaultWeights(), cfg.AI.Weights)
	assert.Equal(t, 100, cfg.Simulate.Games)
	assert.Equal(t, "simulations.db", cfg.Simulate.DB)
	assert.Zero(t, cfg.Seed)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
seed: 42
log_level: debug
journal: game.jsonl.zst
ai:
  faction: liberation
  delay: 0s
  formula: "skill * 2 + weight"
  weights:
    liberation:
      uprising: 9
      probe: 1
simulate:
  games: 5
  db: runs.db
`)
	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, int64(42), cfg.ResolveSeed())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "game.jsonl.zst", cfg.Journal)
	assert.Equal(t, content.Liberation, cfg.AI.Faction)
	assert.Zero(t, cfg.AI.Delay)
	assert.Equal(t, "skill * 2 + weight", cfg.AI.Formula)
	assert.Equal(t, 9, cfg.AI.Weights[content.Liberation][content.EffectUprising])
	assert.Equal(t, 1, cfg.AI.Weights[content.Liberation][content.EffectProbe])
	assert.Equal(t, 2, cfg.AI.Weights[content.Liberation][content.EffectSabotage], "defaults are kept")
	assert.Equal(t, 5, cfg.Simulate.Games)
	assert.Equal(t, "runs.db", cfg.Simulate.DB)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GALACTIC_SEED", "7")
	t.Setenv("GALACTIC_AI_FACTION", "none")

	v, err := New(writeConfig(t, "seed: 1\n"))
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Empty(t, cfg.AI.Faction)
}

func TestMissingDefaultConfigIsFine(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	v, err := New("")
	require.NoError(t, err)
	_, err = Load(v)
	assert.NoError(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"log level", "log_level: loud\n", "invalid log_level"},
		{"faction", "ai:\n  faction: pirates\n", "invalid ai.faction"},
		{"delay", "ai:\n  delay: -1s\n", "ai.delay"},
		{"games", "simulate:\n  games: -3\n", "simulate.games"},
		{"weight faction", "ai:\n  weights:\n    pirates:\n      probe: 1\n", "invalid faction"},
		{"weight effect", "ai:\n  weights:\n    dominion:\n      teleport: 1\n", "unknown mission effect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(writeConfig(t, tt.body))
			require.NoError(t, err)
			_, err = Load(v)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: slog.LevelWarn}.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestCatalog(t *testing.T) {
	cat, err := Config{}.Catalog()
	require.NoError(t, err)
	assert.NotNil(t, cat)

	_, err = Config{Content: filepath.Join(t.TempDir(), "absent.yaml")}.Catalog()
	assert.Error(t, err)
}

func TestResolveSeedFallsBackToClock(t *testing.T) {
	assert.NotZero(t, Config{}.ResolveSeed())
}
