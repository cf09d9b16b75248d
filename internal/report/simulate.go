package report

import (
	"context"
	"fmt"
	"time"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/dice"
	"github.com/npow/galactic-uprising/internal/engine"
)

// playerSeedOffset keeps each player's choices apart from the game's dice.
const playerSeedOffset = 7919

// Play runs one computer versus computer game from seed and returns its
// outcome. aiOpts configure both players.
func Play(ctx context.Context, cat *content.Catalog, batch string, seed int64, engineOpts []engine.Option, aiOpts ...ai.Option) (Game, error) {
	e := engine.New(cat, dice.NewSeeded(seed), engineOpts...)
	players := make([]*ai.Player, 0, len(content.Factions))
	for i, f := range content.Factions {
		p, err := ai.New(e, f, dice.NewSeeded(seed+int64(i+1)*playerSeedOffset), aiOpts...)
		if err != nil {
			return Game{}, err
		}
		players = append(players, p)
	}
	if err := ai.Run(ctx, e, players...); err != nil {
		return Game{}, fmt.Errorf("seed %d: %w", seed, err)
	}

	w := e.World()
	return Game{
		Batch:      batch,
		Seed:       seed,
		Winner:     w.Winner,
		Turns:      w.Turn,
		Reputation: w.Reputation,
		Time:       w.TimeMarker,
		Objectives: len(w.Completed),
		Destroyed:  w.Stats.UnitsDestroyedInBattle + w.Stats.UnitsDestroyedByMissions,
		BaseFound:  w.BaseRevealed,
		Digest:     e.Digest(),
		PlayedAt:   time.Now(),
	}, nil
}
