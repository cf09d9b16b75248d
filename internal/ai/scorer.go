package ai

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/npow/galactic-uprising/internal/content"
)

// DefaultFormula scores a leader/mission pairing by the leader's skill plus
// the faction's weight for the mission effect.
const DefaultFormula = "skill + weight"

// Weights are per-faction bonuses for mission effects. Effects without an
// entry weigh zero.
type Weights map[content.Faction]map[content.Effect]int

// DefaultWeights favours hunting the base for the Dominion and spreading
// loyalty for the Liberation.
func DefaultWeights() Weights {
	return Weights{
		content.Dominion: {
			content.EffectProbe:        3,
			content.EffectIntelSweep:   4,
			content.EffectSwayDominion: 2,
			content.EffectBombardment:  2,
		},
		content.Liberation: {
			content.EffectSwayLiberation: 3,
			content.EffectSabotage:       2,
			content.EffectUprising:       3,
		},
	}
}

// Candidate is one leader/mission pairing offered to the scorer.
type Candidate struct {
	Faction      content.Faction
	Skill        int
	MinSkill     int
	Effect       content.Effect
	Turn         int
	Reputation   int
	Time         int
	BaseRevealed bool
}

// Scorer evaluates a compiled CEL formula over a Candidate.
type Scorer struct {
	formula string
	weights Weights
	prg     cel.Program
}

// NewScorer compiles formula once. An empty formula selects DefaultFormula
// and nil weights select DefaultWeights.
func NewScorer(formula string, weights Weights) (*Scorer, error) {
	if formula == "" {
		formula = DefaultFormula
	}
	if weights == nil {
		weights = DefaultWeights()
	}

	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),

		cel.Variable("skill", cel.IntType),
		cel.Variable("min_skill", cel.IntType),
		cel.Variable("weight", cel.IntType),
		cel.Variable("effect", cel.StringType),
		cel.Variable("faction", cel.StringType),
		cel.Variable("turn", cel.IntType),
		cel.Variable("reputation", cel.IntType),
		cel.Variable("time", cel.IntType),
		cel.Variable("base_revealed", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(formula)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return &Scorer{formula: formula, weights: weights, prg: prg}, nil
}

// Formula returns the source of the compiled formula.
func (s *Scorer) Formula() string {
	return s.formula
}

// Weight returns the faction's bonus for effect.
func (s *Scorer) Weight(f content.Faction, effect content.Effect) int {
	return s.weights[f][effect]
}

// Score evaluates the formula for c. Formulas may yield an int or a double.
func (s *Scorer) Score(c Candidate) (float64, error) {
	out, _, err := s.prg.Eval(map[string]any{
		"skill":         int64(c.Skill),
		"min_skill":     int64(c.MinSkill),
		"weight":        int64(s.Weight(c.Faction, c.Effect)),
		"effect":        c.Effect.String(),
		"faction":       string(c.Faction),
		"turn":          int64(c.Turn),
		"reputation":    int64(c.Reputation),
		"time":          int64(c.Time),
		"base_revealed": c.BaseRevealed,
	})
	if err != nil {
		return 0, fmt.Errorf("CEL eval error: %w", err)
	}
	return number(out)
}

func number(val ref.Val) (float64, error) {
	switch v := val.Value().(type) {
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("formula must yield a number, got %s", val.Type().TypeName())
}
