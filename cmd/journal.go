package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/journal"
	"github.com/npow/galactic-uprising/internal/session"
)

var journalCmd = &cobra.Command{
	Use:   "journal <path>",
	Short: "Print a game journal",
	Long: `Reads a journal written by "play --journal" and prints its games.
With --verify every game is replayed from its seed and the commands are
checked against the recorded answers and final digest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		entries, err := journal.Read(args[0])
		if err != nil {
			return err
		}

		verify, _ := cmd.Flags().GetBool("verify")
		if !verify {
			printEntries(os.Stdout, entries)
			return nil
		}

		cat, err := cfg.Catalog()
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}
		aiOpts, err := opponentOptions(cfg)
		if err != nil {
			return err
		}
		app, err := session.Replay(cmd.Context(), cat, entries, append(aiOpts, ai.WithLogger(log))...)
		if err != nil {
			return fmt.Errorf("journal %s does not replay: %w", args[0], err)
		}
		fmt.Printf("Replayed %d entries, last game seed %d: OK\n", len(entries), app.Seed())
		return nil
	},
}

func printEntries(w io.Writer, entries []journal.Entry) {
	for _, e := range entries {
		switch e := e.(type) {
		case journal.Start:
			opponent := e.AI
			if opponent == "" {
				opponent = "nobody"
			}
			fmt.Fprintf(w, "== game seed %d, human %s, computer %s\n", e.Seed, e.Human, opponent)
		case journal.Log:
			fmt.Fprintf(w, "   [T%d %s] %s\n", e.Turn, e.Phase, e.Message)
		case journal.Command:
			mark := "ok"
			if !e.OK {
				mark = "rejected: " + e.Reason
			}
			fmt.Fprintf(w, "> %s (%s)\n  %s\n", e.Input, mark, e.Message)
		case journal.Outcome:
			fmt.Fprintf(w, "== %s wins on turn %d, reputation %d, time %d, digest %s\n",
				e.Winner, e.Turn, e.Reputation, e.Time, e.Digest)
		}
	}
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().Bool("verify", false, "replay the journal and check every answer")
}
