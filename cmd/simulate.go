package cmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/engine"
	"github.com/npow/galactic-uprising/internal/report"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play computer versus computer games and record the outcomes",
	Long: `Plays a batch of seeded games between two computer players and stores
each outcome in a SQLite database. Seeds run from --seed upward, so a batch
can be reproduced exactly. A summary of the batch is printed at the end.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, map[string]string{
			"games": "simulate.games",
			"db":    "simulate.db",
		})
		if err != nil {
			return err
		}
		cat, err := cfg.Catalog()
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}
		aiOpts, err := opponentOptions(cfg)
		if err != nil {
			return err
		}

		batch, _ := cmd.Flags().GetString("batch")
		if batch == "" {
			batch = time.Now().UTC().Format("20060102T150405")
		}

		store, err := report.Open(cfg.Simulate.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		first := cfg.ResolveSeed()
		log.Info("simulation started", "batch", batch, "games", cfg.Simulate.Games, "seed", first, "db", cfg.Simulate.DB)

		ctx := cmd.Context()
		bar := progressbar.Default(int64(cfg.Simulate.Games), "Simulating")
		engineOpts := []engine.Option{engine.WithLogger(log)}
		for i := 0; i < cfg.Simulate.Games; i++ {
			g, err := report.Play(ctx, cat, batch, first+int64(i), engineOpts, append(aiOpts, ai.WithLogger(log))...)
			if err != nil {
				return err
			}
			if err := store.Record(ctx, g); err != nil {
				return err
			}
			bar.Add(1)
		}

		sum, err := store.Summarize(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", sum)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("games", 100, "number of games to play")
	simulateCmd.Flags().String("db", "simulations.db", "SQLite database receiving the outcomes")
	simulateCmd.Flags().String("batch", "", "batch name, defaults to the start time")
}
