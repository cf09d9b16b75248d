// Package ai plays a faction through the engine's public commands.
//
// A Player is greedy: in the assignment phase it commits the best scoring
// leader/mission pairing, in the command phase it resolves its missions
// before occasionally moving half of a stack toward a promising system.
// Battles it starts are fought to the end immediately, playing the first
// usable tactic card each round.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/engine"
	"github.com/npow/galactic-uprising/internal/world"
)

// ErrNotActive is returned by Step when the player has nothing to do.
var ErrNotActive = errors.New("not this player's turn")

// maxRounds bounds a battle fought by the AI before it retreats.
const maxRounds = 50

// Option configures a Player.
type Option func(*Player)

// WithScorer replaces the default mission scorer.
func WithScorer(s *Scorer) Option {
	return func(p *Player) { p.scorer = s }
}

// WithPacer sets the hook awaited before each action.
func WithPacer(pc Pacer) Option {
	return func(p *Player) { p.pacer = pc }
}

// WithLogger sets the logger for decisions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.log = l }
}

// Player drives one faction.
type Player struct {
	Faction content.Faction

	e      *engine.Engine
	src    dice.Source
	scorer *Scorer
	pacer  Pacer
	log    *slog.Logger
}

// New returns a player for f. src feeds the player's own random choices and
// should not be the engine's source when games must replay identically
// with a human at the other seat.
func New(e *engine.Engine, f content.Faction, src dice.Source, opts ...Option) (*Player, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid faction %q", f)
	}
	p := &Player{
		Faction: f,
		e:       e,
		src:     src,
		pacer:   noPacer{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scorer == nil {
		s, err := NewScorer("", nil)
		if err != nil {
			return nil, err
		}
		p.scorer = s
	}
	return p, nil
}

// Active reports whether the player is expected to act.
func (p *Player) Active() bool {
	w := p.e.World()
	if w.GameOver || w.Active != p.Faction {
		return false
	}
	return w.Phase == world.PhaseAssignment || w.Phase == world.PhaseCommand
}

// Step takes one action and returns its result.
func (p *Player) Step(ctx context.Context) (engine.Result, error) {
	if !p.Active() {
		return engine.Result{}, ErrNotActive
	}
	if err := p.pacer.Wait(ctx); err != nil {
		return engine.Result{}, err
	}
	if p.e.Battle() != nil {
		return p.fight(), nil
	}
	if p.e.World().Phase == world.PhaseAssignment {
		return p.assign()
	}
	return p.command(), nil
}

func (p *Player) assign() (engine.Result, error) {
	w := p.e.World()
	var (
		bestLeader  *world.Leader
		bestMission content.MissionDef
		bestScore   float64
	)
	for _, l := range p.e.Eligible(p.Faction) {
		for _, m := range p.e.Hand(p.Faction) {
			skill := l.Skills.Get(m.Skill)
			if skill < m.MinSkill {
				continue
			}
			score, err := p.scorer.Score(Candidate{
				Faction:      p.Faction,
				Skill:        skill,
				MinSkill:     m.MinSkill,
				Effect:       m.Effect,
				Turn:         w.Turn,
				Reputation:   w.Reputation,
				Time:         w.TimeMarker,
				BaseRevealed: w.BaseRevealed,
			})
			if err != nil {
				return engine.Result{}, fmt.Errorf("failed to score %s for %s: %w", m.ID, l.ID, err)
			}
			if bestLeader == nil || score > bestScore {
				bestLeader, bestMission, bestScore = l, m, score
			}
		}
	}
	if bestLeader == nil {
		return p.e.PassAssignment(), nil
	}

	target := p.target(bestMission, bestLeader)
	res := p.e.Assign(bestLeader.ID, bestMission.ID, target)
	p.log.Debug("ai assign", "faction", p.Faction, "leader", bestLeader.ID, "mission", bestMission.ID,
		"target", target, "score", bestScore, "ok", res.OK)
	if !res.OK {
		return p.e.PassAssignment(), nil
	}
	return res, nil
}

func (p *Player) target(m content.MissionDef, l *world.Leader) string {
	w := p.e.World()
	here := l.Location
	if here == "" {
		here = w.Order[0]
	}
	switch m.Effect {
	case content.EffectSwayDominion, content.EffectSwayLiberation:
		var neutral []string
		for _, id := range w.Order {
			if w.Systems[id].Loyalty == content.Neutral {
				neutral = append(neutral, id)
			}
		}
		if id, ok := dice.Pick(p.src, neutral); ok {
			return id
		}
	case content.EffectBombardment, content.EffectSubjugate:
		for _, id := range w.Order {
			if _, ground := w.UnitsOf(id, p.Faction.Opponent()); len(ground) > 0 {
				return id
			}
		}
	}
	return here
}

func (p *Player) command() engine.Result {
	if len(p.e.Assignments(p.Faction)) > 0 {
		return p.e.ResolveMission(0)
	}
	if res, ok := p.tryMove(); ok {
		return res
	}
	return p.e.PassCommand()
}

// tryMove moves half of a stack of more than three units half the time.
func (p *Player) tryMove() (engine.Result, bool) {
	if p.src.Intn(2) == 0 {
		return engine.Result{}, false
	}
	w := p.e.World()
	var stacks []string
	for _, id := range w.Order {
		if len(p.e.UnitsOf(id, p.Faction)) > 3 && len(p.commanders(id)) > 0 {
			stacks = append(stacks, id)
		}
	}
	from, ok := dice.Pick(p.src, stacks)
	if !ok {
		return engine.Result{}, false
	}
	adjacent := p.e.Adjacent(from)
	to := p.destination(adjacent)
	if to == "" {
		to, _ = dice.Pick(p.src, adjacent)
	}
	if to == "" {
		return engine.Result{}, false
	}

	space, ground := w.UnitsOf(from, p.Faction)
	var units []string
	for _, roster := range [][]world.Unit{space, ground} {
		var mobile []string
		for _, u := range roster {
			if !u.IsStructure() {
				mobile = append(mobile, u.ID)
			}
		}
		units = append(units, mobile[:(len(mobile)+1)/2]...)
	}
	if len(units) == 0 {
		return engine.Result{}, false
	}

	order := engine.MoveOrder{From: from, To: to, Units: units, Leader: p.commanders(from)[0].ID}
	res := p.e.Move(order)
	p.log.Debug("ai move", "faction", p.Faction, "from", from, "to", to, "units", len(units), "ok", res.OK)
	if !res.OK {
		return res, false
	}
	if res.Combat {
		return p.fight(), true
	}
	return res, true
}

func (p *Player) commanders(system string) []*world.Leader {
	var out []*world.Leader
	for _, l := range p.e.LeadersIn(system, p.Faction) {
		if l.Available() {
			out = append(out, l)
		}
	}
	return out
}

// destination prefers systems holding enemy ships, then unprobed and
// disloyal ones for the Dominion; the Liberation looks for neutral worlds.
func (p *Player) destination(adjacent []string) string {
	w := p.e.World()
	find := func(keep func(id string, s *world.System) bool) string {
		for _, id := range adjacent {
			if keep(id, w.Systems[id]) {
				return id
			}
		}
		return ""
	}
	if p.Faction == content.Liberation {
		return find(func(_ string, s *world.System) bool { return s.Loyalty == content.Neutral })
	}
	if to := find(func(id string, _ *world.System) bool {
		space, _ := w.UnitsOf(id, content.Liberation)
		return len(space) > 0
	}); to != "" {
		return to
	}
	if to := find(func(_ string, s *world.System) bool { return !s.Probed }); to != "" {
		return to
	}
	return find(func(_ string, s *world.System) bool { return s.Loyalty != content.LoyalDominion })
}

// fight resolves the active battle to its end.
func (p *Player) fight() engine.Result {
	var res engine.Result
	for rounds := 0; p.e.Battle() != nil; rounds++ {
		if rounds == maxRounds {
			return p.e.Retreat(p.Faction)
		}
		p.Support()
		res = p.e.CombatRound()
		if !res.OK {
			return res
		}
	}
	return res
}

// Support plays the first usable tactic card for the player's faction in
// the active battle, unless one is already down for this round. It reports
// whether a card was played.
func (p *Player) Support() bool {
	b := p.e.Battle()
	if b == nil || b.Played[p.Faction] != nil {
		return false
	}
	cards := p.e.AvailableCards(p.Faction)
	if len(cards) == 0 {
		return false
	}
	res := p.e.PlayCard(p.Faction, cards[0].ID)
	p.log.Debug("ai card", "faction", p.Faction, "card", cards[0].ID, "ok", res.OK)
	return res.OK
}
