package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/config"
	"github.com/npow/galactic-uprising/internal/journal"
	"github.com/npow/galactic-uprising/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive game shell",
	Long: `Starts the read-eval-print loop against the computer opponent.
Usage:
	> assign lib_l5 to lib_m2 at sylvan_prime
	> move all from tundra_base to ice_crown with lib_l1
	> show status

Use --ai none to play both sides from the same keyboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, map[string]string{
			"ai":      "ai.faction",
			"journal": "journal",
			"delay":   "ai.delay",
		})
		if err != nil {
			return err
		}
		cat, err := cfg.Catalog()
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}

		opts := []session.Option{session.WithLogger(log)}
		if cfg.Journal != "" {
			w, err := journal.Create(cfg.Journal)
			if err != nil {
				return err
			}
			defer w.Close()
			opts = append(opts, session.WithJournal(w))
		}
		if cfg.AI.Faction != "" {
			aiOpts, err := opponentOptions(cfg)
			if err != nil {
				return err
			}
			opts = append(opts, session.WithOpponent(cfg.AI.Faction, append(aiOpts, ai.WithLogger(log))...))
		}

		seed := cfg.ResolveSeed()
		app, err := session.New(cat, seed, opts...)
		if err != nil {
			return fmt.Errorf("failed to bootstrap game session: %w", err)
		}
		log.Info("game started", "seed", seed, "ai", cfg.AI.Faction, "journal", cfg.Journal)

		if err := RunTUI(app, ai.NewPacer(cfg.AI.Delay)); err != nil {
			return fmt.Errorf("fatal TUI error: %w", err)
		}
		return nil
	},
}

// opponentOptions builds the scorer the configuration asks for.
func opponentOptions(cfg config.Config) ([]ai.Option, error) {
	scorer, err := ai.NewScorer(cfg.AI.Formula, cfg.AI.Weights)
	if err != nil {
		return nil, fmt.Errorf("invalid ai.formula: %w", err)
	}
	return []ai.Option{ai.WithScorer(scorer)}, nil
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("ai", "dominion", "faction the computer plays, or none")
	playCmd.Flags().StringP("journal", "j", "", "append the game to this journal (.zst compresses)")
	playCmd.Flags().Duration("delay", 800*time.Millisecond, "pause between computer actions")
}
