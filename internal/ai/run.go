package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/npow/galactic-uprising/internal/engine"
)

// ErrStalled is returned by Run when the active faction has no player or
// a player keeps failing without changing the game.
var ErrStalled = errors.New("game stalled")

// maxFailures bounds consecutive rejected actions before Run gives up.
const maxFailures = 10

// Run lets players take turns until the game is over. Each player acts only
// when its faction is active.
func Run(ctx context.Context, e *engine.Engine, players ...*Player) error {
	failures := 0
	for !e.World().GameOver {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := activePlayer(players)
		if p == nil {
			w := e.World()
			return fmt.Errorf("%w: no player for %s in %s phase", ErrStalled, w.Active, w.Phase)
		}
		res, err := p.Step(ctx)
		if err != nil {
			return err
		}
		if res.OK {
			failures = 0
			continue
		}
		failures++
		if failures >= maxFailures {
			return fmt.Errorf("%w: %s keeps failing: %s", ErrStalled, p.Faction, res)
		}
	}
	return nil
}

func activePlayer(players []*Player) *Player {
	for _, p := range players {
		if p.Active() {
			return p
		}
	}
	return nil
}
