// Package combat resolves battles between the two factions in one system.
package combat

import (
	"errors"
	"fmt"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/world"
)

var (
	ErrCombatActive      = errors.New("combat already active")
	ErrNoActiveCombat    = errors.New("no active combat")
	ErrNoOpposingForces  = errors.New("no opposing forces")
	ErrUnknownSystem     = errors.New("unknown system")
	ErrInvalidFaction    = errors.New("invalid faction")
	ErrUnknownCard       = errors.New("unknown card")
	ErrCardWrongDomain   = errors.New("card does not match the current domain")
	ErrCardAlreadyPlayed = errors.New("card already played this round")
)

// Status is the stage of a battle.
type Status string

const (
	StatusSpace    Status = "space"
	StatusGround   Status = "ground"
	StatusResolved Status = "resolved"
)

// Side is a faction's working copy of its units for the battle.
type Side struct {
	Space  []world.Unit
	Ground []world.Unit
}

func (s *Side) units(d content.Domain) *[]world.Unit {
	if d == content.Space {
		return &s.Space
	}
	return &s.Ground
}

// Battle is the active combat.
type Battle struct {
	System    string
	Status    Status
	Round     int
	Sides     map[content.Faction]*Side
	Played    map[content.Faction]*content.Card
	Log       []string
	HasSpace  bool
	HasGround bool
	Winner    content.Faction
	Retreated content.Faction
	Destroyed int

	initialDomSpace int
	initial         map[string]bool
}

// Domain returns the domain being fought, or "" once resolved.
func (b *Battle) Domain() content.Domain {
	switch b.Status {
	case StatusSpace:
		return content.Space
	case StatusGround:
		return content.Ground
	}
	return ""
}

func (b *Battle) logf(format string, args ...any) {
	b.Log = append(b.Log, fmt.Sprintf(format, args...))
}

// SideRoll is what one faction rolled in a round and what it lost.
type SideRoll struct {
	Dice    []dice.Die   `json:"dice"`
	Hits    int          `json:"hits"`
	Crits   int          `json:"crits"`
	Blocked int          `json:"blocked"`
	Final   int          `json:"final"`
	Card    string       `json:"card,omitempty"`
	Lost    []world.Unit `json:"lost"`
}

// Outcome summarises a finalized battle.
type Outcome struct {
	System    string          `json:"system"`
	Winner    content.Faction `json:"winner,omitempty"`
	Retreated content.Faction `json:"retreated,omitempty"`
	Destroyed int             `json:"destroyed"`
}

// RoundResult reports a resolved round.
type RoundResult struct {
	Round      int                           `json:"round"`
	Domain     content.Domain                `json:"domain"`
	Sides      map[content.Faction]*SideRoll `json:"sides"`
	DomainDone bool                          `json:"domain_done"`
	Winner     content.Faction               `json:"winner,omitempty"`
	Next       content.Domain                `json:"next,omitempty"`
	Outcome    *Outcome                      `json:"outcome,omitempty"`
}

// Over reports whether the round ended the battle.
func (r RoundResult) Over() bool {
	return r.Outcome != nil
}

// Engine owns the optional active battle of a world.
type Engine struct {
	w      *world.World
	src    dice.Source
	active *Battle
}

// New returns a combat engine for w drawing from src.
func New(w *world.World, src dice.Source) *Engine {
	return &Engine{w: w, src: src}
}

// Active returns the current battle, or nil.
func (e *Engine) Active() *Battle {
	return e.active
}

// Init opens a battle at system from the rosters there.
func (e *Engine) Init(system string) (*Battle, error) {
	if e.active != nil {
		return nil, ErrCombatActive
	}
	sys, ok := e.w.System(system)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, system)
	}

	b := &Battle{
		System:  system,
		Round:   1,
		Sides:   make(map[content.Faction]*Side, 2),
		Played:  make(map[content.Faction]*content.Card, 2),
		initial: make(map[string]bool),
	}
	for _, f := range content.Factions {
		side := &Side{
			Space:  e.w.Combatants(system, f, content.Space),
			Ground: e.w.Combatants(system, f, content.Ground),
		}
		for _, u := range side.Space {
			b.initial[u.ID] = true
		}
		for _, u := range side.Ground {
			b.initial[u.ID] = true
		}
		b.Sides[f] = side
	}
	dom, lib := b.Sides[content.Dominion], b.Sides[content.Liberation]
	b.HasSpace = len(dom.Space) > 0 && len(lib.Space) > 0
	b.HasGround = len(dom.Ground) > 0 && len(lib.Ground) > 0
	if !b.HasSpace && !b.HasGround {
		return nil, ErrNoOpposingForces
	}
	b.initialDomSpace = len(dom.Space)

	b.logf("Combat at %s!", sys.Name)
	if b.HasSpace {
		b.Status = StatusSpace
		b.logf("Space battle begins.")
	} else {
		b.Status = StatusGround
		b.logf("Ground battle begins.")
	}
	e.active = b
	return b, nil
}

// Available lists the faction's cards usable in the current domain.
func (e *Engine) Available(f content.Faction) []content.Card {
	if e.active == nil {
		return nil
	}
	var out []content.Card
	for _, c := range e.w.Cards[f] {
		if c.Domain == e.active.Domain() {
			out = append(out, c)
		}
	}
	return out
}

// PlayCard commits a tactic card for the faction for the current round.
func (e *Engine) PlayCard(f content.Faction, cardID string) error {
	b := e.active
	if b == nil {
		return ErrNoActiveCombat
	}
	if !f.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidFaction, f)
	}
	if b.Played[f] != nil {
		return ErrCardAlreadyPlayed
	}
	var card *content.Card
	for i := range e.w.Cards[f] {
		if e.w.Cards[f][i].ID == cardID {
			c := e.w.Cards[f][i]
			card = &c
			break
		}
	}
	if card == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	if card.Domain != b.Domain() {
		return fmt.Errorf("%w: %s is a %s card", ErrCardWrongDomain, card.Name, card.Domain)
	}
	b.Played[f] = card
	b.logf("%s plays %s.", f.Title(), card.Name)
	return nil
}

// Round rolls and applies one round of the current domain.
func (e *Engine) Round() (RoundResult, error) {
	b := e.active
	if b == nil {
		return RoundResult{}, ErrNoActiveCombat
	}
	domain := b.Domain()
	res := RoundResult{
		Round:  b.Round,
		Domain: domain,
		Sides:  make(map[content.Faction]*SideRoll, 2),
	}

	for _, f := range content.Factions {
		res.Sides[f] = e.roll(b, f, domain)
	}
	for _, f := range content.Factions {
		mine := res.Sides[f]
		myCard, theirCard := b.Played[f], b.Played[f.Opponent()]
		if theirCard != nil && (myCard == nil || !myCard.Pierce) {
			mine.Blocked = min(theirCard.Block, mine.Hits)
		}
		mine.Final = mine.Hits - mine.Blocked
		if myCard != nil && myCard.DoubleHits {
			mine.Final *= 2
		}
	}

	for _, f := range content.Factions {
		attacker, defender := res.Sides[f], res.Sides[f.Opponent()]
		target := b.Sides[f.Opponent()].units(domain)
		if card := b.Played[f]; card != nil && card.DirectHitLight > 0 {
			defender.Lost = append(defender.Lost, directHit(*target, card.DirectHitLight)...)
		}
		defender.Lost = append(defender.Lost, ApplyDamage(*target, attacker.Final, attacker.Crits)...)
	}
	for _, f := range content.Factions {
		if card := b.Played[f]; card != nil && card.SelfDamage > 0 {
			res.Sides[f].Lost = append(res.Sides[f].Lost, sacrifice(*b.Sides[f].units(domain), card.SelfDamage)...)
		}
	}

	for _, f := range content.Factions {
		list := b.Sides[f].units(domain)
		*list = survivors(*list)
		for _, u := range res.Sides[f].Lost {
			e.recordLoss(u)
		}
		b.Destroyed += len(res.Sides[f].Lost)
	}

	b.logf("Round %d: Dominion deals %d hits, Liberation deals %d hits.",
		b.Round, res.Sides[content.Dominion].Final, res.Sides[content.Liberation].Final)

	domLeft := len(*b.Sides[content.Dominion].units(domain))
	libLeft := len(*b.Sides[content.Liberation].units(domain))
	if domLeft > 0 && libLeft > 0 {
		b.Round++
		b.Played = make(map[content.Faction]*content.Card, 2)
		return res, nil
	}

	res.DomainDone = true
	switch {
	case domLeft > 0:
		res.Winner = content.Dominion
	case libLeft > 0:
		res.Winner = content.Liberation
	}
	b.Winner = res.Winner
	if res.Winner == "" {
		b.logf("The %s battle ends with both forces destroyed.", domain)
	} else {
		b.logf("%s battle won by %s!", domain.Title(), res.Winner.Title())
	}

	if domain == content.Space {
		if res.Winner == content.Liberation && b.initialDomSpace >= 3 {
			e.w.Stats.SpaceWinsVs3Plus++
		}
		if b.HasGround {
			b.Status = StatusGround
			b.Round = 1
			b.Played = make(map[content.Faction]*content.Card, 2)
			res.Next = content.Ground
			b.logf("Ground battle begins.")
			return res, nil
		}
	} else if res.Winner == content.Liberation {
		e.w.Stats.GroundDefenseWins++
	}

	out := e.finalize()
	res.Outcome = &out
	return res, nil
}

// Retreat ends the battle with f fleeing. Nobody wins.
func (e *Engine) Retreat(f content.Faction) (Outcome, error) {
	b := e.active
	if b == nil {
		return Outcome{}, ErrNoActiveCombat
	}
	if !f.Valid() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidFaction, f)
	}
	b.Retreated = f
	b.Winner = ""
	b.logf("%s retreats!", f.Title())
	return e.finalize(), nil
}

func (e *Engine) roll(b *Battle, f content.Faction, domain content.Domain) *SideRoll {
	red, black := 0, 0
	for _, u := range *b.Sides[f].units(domain) {
		t := e.w.Catalog.MustUnitType(u.TypeID)
		red += t.Attack.Red
		black += t.Attack.Black
	}

	best := -1
	for _, l := range e.w.LeadersAt(b.System, f) {
		if l.Skills.Combat > best {
			best = l.Skills.Combat
		}
	}
	if best > 0 {
		if domain == content.Space {
			red += best / 2
		} else {
			black += best / 2
		}
	}

	sr := &SideRoll{}
	reroll := false
	if card := b.Played[f]; card != nil {
		red += card.Bonus.Red
		black += card.Bonus.Black
		reroll = card.Reroll
		sr.Card = card.ID
	}
	sr.Dice = dice.Roll(e.src, red, black, reroll)
	sr.Hits, sr.Crits = dice.Tally(sr.Dice)
	return sr
}

func (e *Engine) recordLoss(u world.Unit) {
	e.w.Stats.UnitsDestroyedInBattle++
	t := e.w.Catalog.MustUnitType(u.TypeID)
	if t.Capital {
		e.w.Stats.CapitalShipsDestroyed++
	}
	if t.Unique {
		e.w.TitanDestroyed = true
	}
}

// finalize folds the surviving copies back into the system rosters.
func (e *Engine) finalize() Outcome {
	b := e.active
	alive := make(map[string]bool)
	for _, side := range b.Sides {
		for _, u := range side.Space {
			alive[u.ID] = true
		}
		for _, u := range side.Ground {
			alive[u.ID] = true
		}
	}

	r := e.w.Rosters[b.System]
	r.Space = keep(r.Space, b.initial, alive)
	r.Ground = keep(r.Ground, b.initial, alive)
	for i := range r.Space {
		r.Space[i].Damage = 0
	}
	for i := range r.Ground {
		r.Ground[i].Damage = 0
	}

	b.Status = StatusResolved
	b.logf("Combat resolved.")
	e.active = nil
	return Outcome{
		System:    b.System,
		Winner:    b.Winner,
		Retreated: b.Retreated,
		Destroyed: b.Destroyed,
	}
}

func keep(roster []world.Unit, initial, alive map[string]bool) []world.Unit {
	out := roster[:0]
	for _, u := range roster {
		if !initial[u.ID] || alive[u.ID] {
			out = append(out, u)
		}
	}
	return out
}
