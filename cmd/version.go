package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/npow/galactic-uprising/internal/content"
)

var (
	// Version is injected via ldflags at build time
	Version = "dev"
	// Commit is injected via ldflags at build time
	Commit = "none"
	// BuildDate is injected via ldflags at build time
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version and built-in content",
	Long: `Displays the version of galactic, its build metadata and a summary of
the content tables compiled into the binary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := content.Default()
		if err != nil {
			return err
		}
		printVersion(cmd.OutOrStdout(), cat)
		return nil
	},
}

func printVersion(w io.Writer, cat *content.Catalog) {
	fmt.Fprintf(w, "galactic %s (%s, built %s, %s %s/%s)\n",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "content: %d systems, %d unit types, %d objectives, %d turns\n",
		len(cat.Systems), len(cat.UnitTypes), len(cat.Objectives), cat.Rules.MaxTurns)
	for _, f := range content.Factions {
		fmt.Fprintf(w, "  %s: %d leaders, %d missions, %d tactic cards\n",
			f.Title(), len(cat.Leaders[f]), len(cat.Missions[f]), len(cat.Cards[f]))
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
