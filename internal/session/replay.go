package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/journal"
)

// ErrDiverged is returned by Replay when the rebuilt game stops matching
// its journal.
var ErrDiverged = errors.New("replay diverged from journal")

// Replay rebuilds the games of a journal and checks every recorded answer
// and outcome digest along the way. Each start entry begins a new game.
// aiOpts must configure the opponent as it was when the journal was
// written. The session of the last game is returned.
func Replay(ctx context.Context, cat *content.Catalog, entries []journal.Entry, aiOpts ...ai.Option) (*Session, error) {
	var s *Session
	for i, entry := range entries {
		switch e := entry.(type) {
		case journal.Start:
			var opts []Option
			if e.AI != "" {
				opts = append(opts, WithOpponent(content.Faction(e.AI), aiOpts...))
			}
			next, err := New(cat, e.Seed, opts...)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			s = next
		case journal.Command:
			if s == nil {
				return nil, fmt.Errorf("entry %d: command before start: %w", i+1, ErrDiverged)
			}
			reply, err := s.replayCommand(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
			if got := reply.Result; got == nil || got.OK != e.OK || got.Message != e.Message {
				return nil, fmt.Errorf("entry %d: %q answered %q: %w", i+1, e.Input, reply.Text, ErrDiverged)
			}
		case journal.Outcome:
			if s == nil {
				return nil, fmt.Errorf("entry %d: outcome before start: %w", i+1, ErrDiverged)
			}
			if d := s.e.Digest(); d != e.Digest {
				return nil, fmt.Errorf("entry %d: digest %s, journal has %s: %w", i+1, d, e.Digest, ErrDiverged)
			}
		}
	}
	if s == nil {
		return nil, fmt.Errorf("journal has no start entry: %w", ErrDiverged)
	}
	return s, nil
}

func (s *Session) replayCommand(ctx context.Context, c journal.Command) (Reply, error) {
	if strings.HasPrefix(c.Input, aiInput) {
		return s.AIStep(ctx)
	}
	return s.Execute(c.Input)
}
