// Package session drives one game from typed commands.
//
// A Session owns the engine, an optional computer opponent and an optional
// journal. Every command goes through the parser, then through the engine,
// and its answer is journaled next to the game log.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/engine"
	"github.com/npow/galactic-uprising/internal/journal"
	"github.com/npow/galactic-uprising/internal/parser"
	"github.com/npow/galactic-uprising/internal/world"
)

const (
	// ReasonNotYourTurn rejects a human command while the computer acts.
	ReasonNotYourTurn engine.Reason = "not_your_turn"
	// ReasonNotYourFaction rejects a card played for the computer's side.
	ReasonNotYourFaction engine.Reason = "not_your_faction"
)

// aiSeedOffset separates the opponent's choices from the game's dice.
const aiSeedOffset = 7919

// aiInput prefixes journaled computer actions.
const aiInput = "ai "

// Journal receives the entries of a game. *journal.Writer satisfies it.
type Journal interface {
	Append(journal.Entry) error
}

// Option configures a Session.
type Option func(*Session)

// WithOpponent lets the computer play f.
func WithOpponent(f content.Faction, opts ...ai.Option) Option {
	return func(s *Session) {
		s.opponent = f
		s.aiOpts = opts
	}
}

// WithJournal records the game into j.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Reply is what the session answers to one command.
type Reply struct {
	Text   string
	Result *engine.Result
	Quit   bool
}

// Session manages the loop of taking commands, executing them and
// journaling their outcome.
type Session struct {
	cat      *content.Catalog
	seed     int64
	opponent content.Faction
	aiOpts   []ai.Option
	journal  Journal
	log      *slog.Logger

	e          *engine.Engine
	ai         *ai.Player
	finished   bool
	journalErr error
}

// New starts a game from cat and seed.
func New(cat *content.Catalog, seed int64, opts ...Option) (*Session, error) {
	s := &Session{
		cat:  cat,
		seed: seed,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.opponent != "" && !s.opponent.Valid() {
		return nil, fmt.Errorf("invalid opponent faction %q", s.opponent)
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// start builds a fresh engine for the session's seed.
func (s *Session) start() error {
	s.finished = false
	s.journalErr = nil
	if err := s.record(journal.Start{Seed: s.seed, Human: string(s.Human()), AI: string(s.opponent)}); err != nil {
		return err
	}
	s.e = engine.New(s.cat, dice.NewSeeded(s.seed), engine.WithLogger(s.log), engine.WithObserver(s.observe))
	s.ai = nil
	if s.opponent != "" {
		p, err := ai.New(s.e, s.opponent, dice.NewSeeded(s.seed+aiSeedOffset), s.aiOpts...)
		if err != nil {
			return fmt.Errorf("failed to create opponent: %w", err)
		}
		s.ai = p
	}
	return s.takeJournalErr()
}

func (s *Session) observe(entry world.LogEntry) {
	if s.journalErr == nil {
		s.journalErr = s.record(journal.Log{LogEntry: entry})
	}
}

func (s *Session) record(e journal.Entry) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Append(e); err != nil {
		return fmt.Errorf("failed to journal %s entry: %w", e.Kind(), err)
	}
	return nil
}

func (s *Session) takeJournalErr() error {
	err := s.journalErr
	s.journalErr = nil
	return err
}

// Engine returns the running game.
func (s *Session) Engine() *engine.Engine {
	return s.e
}

// Seed returns the seed every restart reuses.
func (s *Session) Seed() int64 {
	return s.seed
}

// Opponent returns the computer's faction, or "" when both sides are human.
func (s *Session) Opponent() content.Faction {
	return s.opponent
}

// Human returns the faction typed commands play, or "" when both are.
func (s *Session) Human() content.Faction {
	if s.opponent == "" {
		return ""
	}
	return s.opponent.Opponent()
}

// AIActive reports whether the computer is expected to act.
func (s *Session) AIActive() bool {
	return s.ai != nil && s.ai.Active()
}

// Execute parses and runs one command line. Parse errors come back as
// errors carrying a usage hint; rule rejections come back as replies whose
// Result is not OK.
func (s *Session) Execute(input string) (Reply, error) {
	cmd, err := parser.Parse(input)
	if err != nil {
		return Reply{}, err
	}
	reply, err := s.dispatch(cmd)
	if err != nil {
		return Reply{}, err
	}
	if r := reply.Result; r != nil {
		if err := s.record(journal.Command{
			Input:   strings.TrimSpace(input),
			OK:      r.OK,
			Reason:  string(r.Reason),
			Message: r.Message,
		}); err != nil {
			return reply, err
		}
		if r.OK && s.ai != nil {
			s.ai.Support()
		}
	}
	return reply, s.settle()
}

// AIStep lets the computer take one action.
func (s *Session) AIStep(ctx context.Context) (Reply, error) {
	if !s.AIActive() {
		return Reply{}, ai.ErrNotActive
	}
	res, err := s.ai.Step(ctx)
	if err != nil {
		return Reply{}, err
	}
	if err := s.record(journal.Command{
		Input:   aiInput + string(s.opponent),
		OK:      res.OK,
		Reason:  string(res.Reason),
		Message: res.Message,
	}); err != nil {
		return Reply{}, err
	}
	reply := result(res)
	reply.Text = s.opponent.Title() + ": " + reply.Text
	return reply, s.settle()
}

// AITurn lets the computer act until it is the human's turn again or the
// game ends.
func (s *Session) AITurn(ctx context.Context) ([]Reply, error) {
	var out []Reply
	for s.AIActive() {
		reply, err := s.AIStep(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, reply)
		if !reply.Result.OK {
			// A rejected action leaves the game unchanged; stop rather than spin.
			break
		}
	}
	return out, nil
}

// settle surfaces journal failures and records the outcome once.
func (s *Session) settle() error {
	if err := s.takeJournalErr(); err != nil {
		return err
	}
	w := s.e.World()
	if !w.GameOver || s.finished {
		return nil
	}
	s.finished = true
	return s.record(journal.Outcome{
		Winner:     w.Winner,
		Turn:       w.Turn,
		Reputation: w.Reputation,
		Time:       w.TimeMarker,
		Digest:     s.e.Digest(),
	})
}

func (s *Session) dispatch(cmd *parser.Command) (Reply, error) {
	switch {
	case cmd.Assign != nil:
		return s.turn(func() engine.Result {
			a := cmd.Assign
			return s.e.Assign(a.Leader, a.Mission, a.Target)
		}), nil
	case cmd.Pass != nil:
		return s.turn(func() engine.Result {
			if s.e.World().Phase == world.PhaseAssignment {
				return s.e.PassAssignment()
			}
			return s.e.PassCommand()
		}), nil
	case cmd.Resolve != nil:
		return s.turn(func() engine.Result {
			return s.e.ResolveMission(cmd.Resolve.Position())
		}), nil
	case cmd.Move != nil:
		return s.turn(func() engine.Result {
			return s.e.Move(s.moveOrder(cmd.Move))
		}), nil
	case cmd.Combat != nil:
		return result(s.e.InitCombat(cmd.Combat.System)), nil
	case cmd.Play != nil:
		f := content.Faction(strings.ToLower(cmd.Play.Faction))
		if s.ai != nil && f == s.opponent {
			return result(engine.Result{
				Reason:  ReasonNotYourFaction,
				Message: fmt.Sprintf("The %s plays its own cards.", f.Title()),
			}), nil
		}
		return result(s.e.PlayCard(f, cmd.Play.Card)), nil
	case cmd.Round != nil:
		return result(s.e.CombatRound()), nil
	case cmd.Retreat != nil:
		return result(s.e.Retreat(content.Faction(strings.ToLower(cmd.Retreat.Faction)))), nil
	case cmd.Show != nil:
		return Reply{Text: s.show(cmd.Show)}, nil
	case cmd.Restart != nil:
		if err := s.start(); err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("A new game begins with seed %d.", s.seed)}, nil
	case cmd.Help != nil:
		return Reply{Text: help(cmd.Help.Command)}, nil
	case cmd.Quit != nil:
		return Reply{Text: "Goodbye.", Quit: true}, nil
	}
	return Reply{}, fmt.Errorf("unsupported command pattern")
}

// turn runs fn unless the computer is the one to act.
func (s *Session) turn(fn func() engine.Result) Reply {
	if s.AIActive() {
		return result(engine.Result{
			Reason:  ReasonNotYourTurn,
			Message: fmt.Sprintf("It is the %s's turn.", s.opponent.Title()),
		})
	}
	return result(fn())
}

func (s *Session) moveOrder(m *parser.MoveCmd) engine.MoveOrder {
	order := engine.MoveOrder{From: m.From, To: m.To, Units: m.Units, Leader: m.Leader}
	if m.All {
		order.Units = nil
		for _, u := range s.e.World().Mobile(m.From, s.e.World().Active) {
			order.Units = append(order.Units, u.ID)
		}
	}
	return order
}

func result(res engine.Result) Reply {
	return Reply{Text: describe(res), Result: &res}
}
