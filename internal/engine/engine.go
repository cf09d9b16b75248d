// Package engine runs the turn structure of a game: assignment, command and
// refresh phases, mission effects, movement, objectives and victory.
//
// Every command returns a Result. Rule violations never panic; they come back
// as a Result with OK false and a stable Reason code.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/npow/galactic-uprising/internal/combat"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/world"
)

// Observer receives every game log entry as it is written.
type Observer func(world.LogEntry)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger mirrors the game log to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithObserver subscribes o to the game log.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// Engine owns the world and the combat engine of one game.
type Engine struct {
	cat       *content.Catalog
	src       dice.Source
	log       *slog.Logger
	observers []Observer

	w      *world.World
	combat *combat.Engine

	// combatFromMove defers command alternation until the battle a move
	// opened is finalized.
	combatFromMove bool
	battleSeen     int
}

// New starts a game from cat. All randomness is drawn from src.
func New(cat *content.Catalog, src dice.Source, opts ...Option) *Engine {
	e := &Engine{
		cat: cat,
		src: src,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Restart()
	return e
}

// Restart throws the current game away and sets up a new one.
func (e *Engine) Restart() {
	e.w = world.New(e.cat)
	e.combat = combat.New(e.w, e.src)
	e.combatFromMove = false
	e.battleSeen = 0
	e.setup()
}

// World exposes the state for reading.
func (e *Engine) World() *world.World {
	return e.w
}

// Catalog returns the static tables of the game.
func (e *Engine) Catalog() *content.Catalog {
	return e.cat
}

// Battle returns the active combat, or nil.
func (e *Engine) Battle() *combat.Battle {
	return e.combat.Active()
}

func (e *Engine) setup() {
	w, cat := e.w, e.cat

	for _, p := range cat.StartingUnits[content.Dominion] {
		e.placeStarting(p.System, p.Units)
	}

	for _, f := range content.Factions {
		pool := append([]content.MissionDef(nil), cat.Missions[f]...)
		dice.Shuffle(e.src, pool)
		n := min(cat.Rules.HandSize, len(pool))
		w.Hands[f] = pool[:n:n]
		w.Decks[f] = pool[n:]
	}

	objectives := append([]content.ObjectiveDef(nil), cat.Objectives...)
	dice.Shuffle(e.src, objectives)
	n := min(cat.Rules.FaceUpObjectives, len(objectives))
	w.Objectives = objectives[:n:n]
	w.ObjectiveDeck = objectives[n:]

	for _, id := range w.Order {
		if w.Systems[id].Loyalty != content.LoyalDominion {
			w.ProbeDeck = append(w.ProbeDeck, id)
		}
	}
	dice.Shuffle(e.src, w.ProbeDeck)

	for _, f := range content.Factions {
		cards := append([]content.Card(nil), cat.Cards[f]...)
		dice.Shuffle(e.src, cards)
		w.Cards[f] = cards
	}

	e.chooseBase()

	e.logf("The galaxy stands on the brink. The Dominion tightens its grip. The Liberation rises.")
	e.logf("Turn 1 begins. %s assigns first.", w.Active.Title())
}

func (e *Engine) chooseBase() {
	w := e.w
	var candidates []string
	for _, id := range w.Order {
		s := w.Systems[id]
		if e.cat.Rules.IsBaseRegion(s.Region) && s.Loyalty != content.LoyalDominion {
			candidates = append(candidates, id)
		}
	}
	base, ok := dice.Pick(e.src, candidates)
	if !ok {
		return
	}
	w.Base = base
	for _, p := range e.cat.StartingUnits[content.Liberation] {
		system := p.System
		if system == content.BaseSystem {
			system = base
		}
		e.placeStarting(system, p.Units)
	}
	for _, l := range w.Leaders[content.Liberation] {
		if l.Location == "" {
			l.Location = base
		}
	}
	w.Systems[base].Loyalty = content.LoyalLiberation
	e.logf("Liberation base established in secret.")
}

func (e *Engine) placeStarting(system string, units []content.UnitCount) {
	for _, uc := range units {
		t := e.cat.MustUnitType(uc.Type)
		for i := 0; i < uc.Count; i++ {
			e.w.Spawn(system, t)
		}
	}
}

func (e *Engine) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	entry := e.w.Append(msg)
	e.log.Debug(msg, "turn", entry.Turn, "phase", entry.Phase, "faction", e.w.Active)
	for _, o := range e.observers {
		o(entry)
	}
}
