package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/npow/galactic-uprising/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "galactic",
	Short: "Galactic Uprising, a Dominion versus Liberation strategy game",
	Long: `Galactic Uprising is a two-faction strategy game played in turns of
assignment, command and refresh. The Dominion hunts for the hidden
Liberation base while the Liberation completes objectives to win the
galaxy's support before time runs out.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.galactic-uprising/config.yaml)")
	flags.Int64("seed", 0, "game seed, 0 picks one from the clock")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("content", "", "YAML content file replacing the built-in tables")
}

// globalKeys maps the persistent flags onto config keys.
var globalKeys = map[string]string{
	"seed":      "seed",
	"log-level": "log_level",
	"content":   "content",
}

// loadConfig reads the config file, the environment and the flags of cmd.
// keys maps the command's own flags onto config keys.
func loadConfig(cmd *cobra.Command, keys map[string]string) (config.Config, *slog.Logger, error) {
	v, err := config.New(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := bindFlags(v, cmd, globalKeys); err != nil {
		return config.Config{}, nil, err
	}
	if err := bindFlags(v, cmd, keys); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, cfg.Logger(os.Stderr), nil
}

// bindFlags maps flag names of cmd onto config keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}
