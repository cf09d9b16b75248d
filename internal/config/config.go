// Package config turns viper settings into a typed Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
)

// EnvPrefix prefixes environment overrides, e.g. GALACTIC_SEED.
const EnvPrefix = "GALACTIC"

// Config is the resolved configuration of a run.
type Config struct {
	Seed     int64
	LogLevel slog.Level
	Content  string
	Journal  string
	AI       AI
	Simulate Simulate
}

// AI configures the computer player.
type AI struct {
	Faction content.Faction
	Delay   time.Duration
	Formula string
	Weights ai.Weights
}

// Simulate configures batch runs.
type Simulate struct {
	Games int
	DB    string
}

// Defaults registers the default value of every key.
func Defaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "warn")
	v.SetDefault("content", "")
	v.SetDefault("journal", "")
	v.SetDefault("ai.faction", string(content.Dominion))
	v.SetDefault("ai.delay", "800ms")
	v.SetDefault("ai.formula", ai.DefaultFormula)
	v.SetDefault("simulate.games", 100)
	v.SetDefault("simulate.db", "simulations.db")
}

// New prepares a viper instance. With cfgFile empty it looks for
// config.yaml in the working directory and in $HOME/.galactic-uprising; a
// missing file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".galactic-uprising"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load reads a Config out of v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Seed:    v.GetInt64("seed"),
		Content: v.GetString("content"),
		Journal: v.GetString("journal"),
		AI: AI{
			Faction: content.Faction(strings.ToLower(v.GetString("ai.faction"))),
			Delay:   v.GetDuration("ai.delay"),
			Formula: v.GetString("ai.formula"),
		},
		Simulate: Simulate{
			Games: v.GetInt("simulate.games"),
			DB:    v.GetString("simulate.db"),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return Config{}, fmt.Errorf("invalid log_level: %w", err)
	}
	if cfg.AI.Faction != "" && cfg.AI.Faction != "none" && !cfg.AI.Faction.Valid() {
		return Config{}, fmt.Errorf("invalid ai.faction %q", cfg.AI.Faction)
	}
	if cfg.AI.Faction == "none" {
		cfg.AI.Faction = ""
	}
	if cfg.AI.Delay < 0 {
		return Config{}, fmt.Errorf("ai.delay must not be negative")
	}
	if cfg.Simulate.Games < 0 {
		return Config{}, fmt.Errorf("simulate.games must not be negative")
	}

	weights, err := loadWeights(v)
	if err != nil {
		return Config{}, err
	}
	cfg.AI.Weights = weights
	return cfg, nil
}

// loadWeights overlays ai.weights.<faction>.<effect> on the defaults.
func loadWeights(v *viper.Viper) (ai.Weights, error) {
	weights := ai.DefaultWeights()
	for key := range v.GetStringMap("ai.weights") {
		f := content.Faction(key)
		if !f.Valid() {
			return nil, fmt.Errorf("invalid faction %q in ai.weights", key)
		}
		if weights[f] == nil {
			weights[f] = make(map[content.Effect]int)
		}
		for tag := range v.GetStringMap("ai.weights." + key) {
			effect, err := content.ParseEffect(tag)
			if err != nil {
				return nil, fmt.Errorf("ai.weights.%s: %w", key, err)
			}
			weights[f][effect] = v.GetInt("ai.weights." + key + "." + tag)
		}
	}
	return weights, nil
}

// Logger builds the text logger for the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// Catalog loads the configured content file, or the built-in tables.
func (c Config) Catalog() (*content.Catalog, error) {
	if c.Content == "" {
		return content.Default()
	}
	return content.Load(c.Content)
}

// ResolveSeed returns the configured seed, or a clock-based one when unset.
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
